package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// TodoStatus 待办状态码
// TodoStatus is the backend todo status code
type TodoStatus int

const (
	TodoInProgress TodoStatus = 1
	TodoFinished   TodoStatus = 2
	TodoCancelled  TodoStatus = 3
	TodoTimeout    TodoStatus = 4
)

type Todo struct {
	ID         string
	Title      string
	Status     string
	DeadlineAt int64
	Creator    string
	Desc       string
	Raw        map[string]any
}

// TodoFilter 列表查询条件；UserID 为空时不附带该参数
// TodoFilter narrows a todo listing; an empty UserID omits the parameter
type TodoFilter struct {
	UserID string
}

// TodoInput 表单原样输入：截止时间与执行人都是文本
// TodoInput is raw form input; deadline and executors are text
type TodoInput struct {
	Title      string
	DeadlineAt string
	ExecuteIDs string
	Desc       string
}

type todoPayload struct {
	Title      string   `json:"title"`
	DeadlineAt int64    `json:"deadlineAt"`
	ExecuteIDs []string `json:"executeIds"`
	Desc       string   `json:"desc"`
}

func (c *Client) ListTodos(ctx context.Context, filter TodoFilter) ([]Todo, error) {
	resp, err := c.Request(ctx, withQuery("v1/todo/list", "userId", filter.UserID), RequestOptions{})
	if err != nil {
		return nil, err
	}
	items := ExtractList(resp, "data", "List")
	todos := make([]Todo, 0, len(items))
	for _, item := range items {
		todos = append(todos, todoFromItem(item))
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, in TodoInput) (any, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	return c.Request(ctx, "v1/todo", RequestOptions{
		Method: http.MethodPost,
		Body: todoPayload{
			Title:      in.Title,
			DeadlineAt: ParseDeadline(in.DeadlineAt),
			ExecuteIDs: SplitIDs(in.ExecuteIDs),
			Desc:       in.Desc,
		},
	})
}

func (c *Client) FinishTodo(ctx context.Context, id string) (any, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "todoId", Message: "todo id is required"}
	}
	return c.Request(ctx, "v1/todo/finish", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"todoId": id},
	})
}

func (c *Client) DeleteTodo(ctx context.Context, id string) (any, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "todoId", Message: "todo id is required"}
	}
	return c.Request(ctx, "v1/todo/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
}

// SplitIDs 按逗号拆分、去空白并丢弃空项；结果从不为 nil
// SplitIDs splits on commas, trims and drops empties; the result is never nil
func SplitIDs(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseDeadline 非数字输入视为 0
// ParseDeadline treats non-numeric input as 0
func ParseDeadline(raw string) int64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int64(f)
	}
	return 0
}

func todoFromItem(item map[string]any) Todo {
	return Todo{
		ID:         firstTruthy(item, "id", "ID"),
		Title:      Stringify(item["title"]),
		Status:     firstPresent(item, "status", "todoStatus"),
		DeadlineAt: int64Field(item, "deadlineAt"),
		Creator:    firstTruthy(item, "creatorName", "creatorId"),
		Desc:       Stringify(item["desc"]),
		Raw:        item,
	}
}

// TodoStatusLabel 状态码对应的中文标签；未知状态原样返回
// TodoStatusLabel maps a status code to its label; unknown codes are returned as-is
func TodoStatusLabel(status string) string {
	switch status {
	case "1":
		return "进行中"
	case "2":
		return "已完成"
	case "3":
		return "已取消"
	case "4":
		return "已超时"
	}
	return status
}
