package basecamp

import (
	"context"
	"io"
	"strconv"

	bcsdk "github.com/basecamp/basecamp-sdk/go/pkg/basecamp"

	"github.com/pocketlist/pocketlist/internal/output"
)

// ClientConfig locates the to-do list the backend works on.
type ClientConfig struct {
	BaseURL    string
	AccountID  string
	ProjectID  string
	TodolistID string
	CacheDir   string
}

// SDKService is the production Service backed by the Basecamp SDK.
type SDKService struct {
	client     *bcsdk.AccountClient
	projectID  int64
	todolistID int64
}

var _ Service = (*SDKService)(nil)

// NewSDKService builds an SDK client authenticated by tokens and scoped to
// the configured account, project and to-do list.
func NewSDKService(cfg ClientConfig, tokens bcsdk.TokenProvider, hooks bcsdk.Hooks) (*SDKService, error) {
	if cfg.AccountID == "" {
		return nil, output.ErrUsageHint("Basecamp account is not configured", "Set account_id or pass --account")
	}
	projectID, err := strconv.ParseInt(cfg.ProjectID, 10, 64)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid project ID", "Set project_id or pass --project")
	}
	todolistID, err := strconv.ParseInt(cfg.TodolistID, 10, 64)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid todolist ID", "Set todolist_id or pass --todolist")
	}

	sdkCfg := &bcsdk.Config{
		BaseURL:    cfg.BaseURL,
		AccountID:  cfg.AccountID,
		ProjectID:  cfg.ProjectID,
		TodolistID: cfg.TodolistID,
		CacheDir:   cfg.CacheDir,
	}
	var client *bcsdk.Client
	if hooks != nil {
		client = bcsdk.NewClient(sdkCfg, tokens, bcsdk.WithHooks(hooks))
	} else {
		client = bcsdk.NewClient(sdkCfg, tokens)
	}

	return &SDKService{
		client:     client.ForAccount(cfg.AccountID),
		projectID:  projectID,
		todolistID: todolistID,
	}, nil
}

func (s *SDKService) ListTodos(ctx context.Context) ([]Todo, error) {
	result, err := s.client.Todos().List(ctx, s.projectID, s.todolistID, &bcsdk.TodoListOptions{})
	if err != nil {
		return nil, err
	}
	todos := make([]Todo, 0, len(result.Todos))
	for _, t := range result.Todos {
		todos = append(todos, Todo{ID: t.ID, Content: t.Content, Description: t.Description})
	}
	return todos, nil
}

func (s *SDKService) CreateTodo(ctx context.Context, content, description string) (int64, error) {
	todo, err := s.client.Todos().Create(ctx, s.projectID, s.todolistID, &bcsdk.CreateTodoRequest{
		Content:     content,
		Description: description,
	})
	if err != nil {
		return 0, err
	}
	return todo.ID, nil
}

func (s *SDKService) UploadAttachment(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	resp, err := s.client.Attachments().Create(ctx, filename, contentType, body)
	if err != nil {
		return "", err
	}
	return resp.AttachableSGID, nil
}
