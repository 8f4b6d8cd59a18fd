package basecamp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	bcsdk "github.com/basecamp/basecamp-sdk/go/pkg/basecamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
	"github.com/pocketlist/pocketlist/internal/output"
)

type fakeService struct {
	todos   []Todo
	nextID  int64
	uploads map[string][]byte
	types   map[string]string
	listErr error
	postErr error
	upErr   error
}

func newFakeService() *fakeService {
	return &fakeService{
		nextID:  100,
		uploads: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeService) ListTodos(context.Context) ([]Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Todo(nil), f.todos...), nil
}

func (f *fakeService) CreateTodo(_ context.Context, content, description string) (int64, error) {
	if f.postErr != nil {
		return 0, f.postErr
	}
	f.nextID++
	f.todos = append(f.todos, Todo{ID: f.nextID, Content: content, Description: description})
	return f.nextID, nil
}

func (f *fakeService) UploadAttachment(_ context.Context, filename, contentType string, body io.Reader) (string, error) {
	if f.upErr != nil {
		return "", f.upErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploads[filename] = data
	f.types[filename] = contentType
	return "sgid-" + filename, nil
}

func TestCreateWithoutPhoto(t *testing.T) {
	svc := newFakeService()
	b := New(svc)

	got, err := b.Create(context.Background(), models.Item{Name: "Milk", Description: "2% <organic>"})
	require.NoError(t, err)

	assert.Equal(t, "101", got.ID)
	assert.Equal(t, "Milk", got.Name)
	require.Len(t, svc.todos, 1)
	assert.Equal(t, "<div>2% &lt;organic&gt;</div>", svc.todos[0].Description)
}

func TestCreateEmbedsUploadedPhoto(t *testing.T) {
	svc := newFakeService()
	b := New(svc)
	ctx := context.Background()

	key := "abc_todoPhoto.jpg"
	require.NoError(t, b.StorageWrite(ctx, key, strings.NewReader("jpeg"), gateway.WriteOptions{
		AccessLevel: gateway.Private,
		ContentType: "image/png",
	}))
	assert.Equal(t, []byte("jpeg"), svc.uploads[key])
	assert.Equal(t, "image/png", svc.types[key])

	_, err := b.Create(ctx, models.Item{Name: "Photo", Image: key})
	require.NoError(t, err)
	assert.Contains(t, svc.todos[0].Description, `sgid="sgid-abc_todoPhoto.jpg"`)
	assert.Contains(t, svc.todos[0].Description, `caption="abc_todoPhoto.jpg"`)
}

func TestCreateWithUnknownPhotoKey(t *testing.T) {
	svc := newFakeService()
	b := New(svc)

	_, err := b.Create(context.Background(), models.Item{Name: "Photo", Image: "missing.jpg"})
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.Empty(t, svc.todos)
}

func TestListParsesAttachment(t *testing.T) {
	svc := newFakeService()
	svc.todos = []Todo{
		{ID: 1, Content: "Plain", Description: "<div>line one</div><div>line two</div>"},
		{ID: 2, Content: "With photo", Description: `<div>see pic</div><bc-attachment sgid="s1" caption="k_todoPhoto.jpg" href="https://storage.example.com/k.jpg?a=1&amp;b=2"></bc-attachment>`},
		{ID: 3, Content: "Filename only", Description: `<bc-attachment sgid="s2" filename="cat.png" url="https://storage.example.com/cat.png"></bc-attachment>`},
	}
	b := New(svc)
	ctx := context.Background()

	items, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, models.Item{ID: "1", Name: "Plain", Description: "line one\nline two"}, items[0])
	assert.Equal(t, models.Item{ID: "2", Name: "With photo", Description: "see pic", Image: "k_todoPhoto.jpg"}, items[1])
	assert.Equal(t, "cat.png", items[2].Image)
	assert.Empty(t, items[2].Description)

	u, err := b.StorageRead(ctx, "k_todoPhoto.jpg", gateway.ReadOptions{AccessLevel: gateway.Private})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/k.jpg?a=1&b=2", u)

	u, err = b.StorageRead(ctx, "cat.png", gateway.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/cat.png", u)
}

func TestStorageReadUnknownKey(t *testing.T) {
	b := New(newFakeService())

	_, err := b.StorageRead(context.Background(), "nope.jpg", gateway.ReadOptions{AccessLevel: gateway.Private})
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestOnlyPrivateLevel(t *testing.T) {
	b := New(newFakeService())
	ctx := context.Background()

	_, err := b.StorageRead(ctx, "k.jpg", gateway.ReadOptions{AccessLevel: gateway.Public})
	assert.ErrorIs(t, err, gateway.ErrUnsupportedAccessLevel)

	err = b.StorageWrite(ctx, "k.jpg", strings.NewReader("x"), gateway.WriteOptions{AccessLevel: gateway.Protected})
	assert.ErrorIs(t, err, gateway.ErrUnsupportedAccessLevel)
}

func TestStorageWriteRejectsBadKey(t *testing.T) {
	b := New(newFakeService())

	err := b.StorageWrite(context.Background(), "a/b.jpg", strings.NewReader("x"), gateway.WriteOptions{})
	assert.ErrorIs(t, err, gateway.ErrInvalidKey)
}

func TestStorageWriteDefaultsContentType(t *testing.T) {
	svc := newFakeService()
	b := New(svc)

	require.NoError(t, b.StorageWrite(context.Background(), "k.jpg", strings.NewReader("x"), gateway.WriteOptions{}))
	assert.Equal(t, "image/jpeg", svc.types["k.jpg"])
}

func TestSDKErrorsAreConverted(t *testing.T) {
	svc := newFakeService()
	svc.listErr = &bcsdk.Error{Code: bcsdk.CodeNotFound, Message: "Todolist not found"}
	b := New(svc)

	_, err := b.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeNotFound, e.Code)
	assert.Equal(t, "Todolist not found", e.Message)
}

func TestConvertSDKError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"auth", &bcsdk.Error{Code: bcsdk.CodeAuth, Message: "unauthorized"}, output.CodeAuth},
		{"forbidden", &bcsdk.Error{Code: bcsdk.CodeForbidden, Message: "denied"}, output.CodeForbidden},
		{"network", &bcsdk.Error{Code: bcsdk.CodeNetwork, Message: "dns"}, output.CodeNetwork},
		{"other", &bcsdk.Error{Code: bcsdk.CodeAPI, Message: "500"}, output.CodeAPI},
		{"rate limit", bcsdk.ErrRateLimited, output.CodeAPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *output.Error
			require.ErrorAs(t, convertSDKError(tt.err), &e)
			assert.Equal(t, tt.code, e.Code)
		})
	}

	plain := errors.New("plain")
	assert.Same(t, plain, convertSDKError(plain))
	assert.NoError(t, convertSDKError(nil))
}

func TestUploadFailureKeepsNoSGID(t *testing.T) {
	svc := newFakeService()
	svc.upErr = errors.New("upload refused")
	b := New(svc)
	ctx := context.Background()

	err := b.StorageWrite(ctx, "k.jpg", strings.NewReader("x"), gateway.WriteOptions{})
	require.Error(t, err)

	_, err = b.Create(ctx, models.Item{Name: "x", Image: "k.jpg"})
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestNewSDKServiceValidatesIDs(t *testing.T) {
	_, err := NewSDKService(ClientConfig{ProjectID: "1", TodolistID: "2"}, nil, nil)
	assert.Error(t, err)

	_, err = NewSDKService(ClientConfig{AccountID: "9", ProjectID: "x", TodolistID: "2"}, nil, nil)
	var e *output.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, output.CodeUsage, e.Code)
}
