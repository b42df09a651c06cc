package stub

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 待办状态 / todo status
const (
	todoInProgress = 1
	todoFinished   = 2
	todoCancel     = 3
	todoTimeout    = 4
)

// 审批状态 / approval status
const (
	approvalNotStarted = iota
	approvalProcessed
	approvalPass
	approvalRefuse
	approvalCancel
	approvalAutoPass
)

type todoRecord struct {
	ID          string   `json:"id"`
	CreatorID   string   `json:"creatorId"`
	CreatorName string   `json:"creatorName"`
	Title       string   `json:"title"`
	DeadlineAt  int64    `json:"deadlineAt"`
	Desc        string   `json:"desc"`
	Status      int      `json:"todoStatus"`
	ExecuteIDs  []string `json:"executeIds"`
	CreateAt    int64    `json:"createAt"`
}

type approvalRecord struct {
	ID       string `json:"id"`
	No       string `json:"no"`
	Type     int    `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Reason   string `json:"reason"`
	CreateAt int64  `json:"createAt"`
}

type fileRecord struct {
	Name    string
	Size    int
	Content []byte
}

// memory 进程内数据；所有方法返回副本
// memory holds the in-process data; every accessor returns copies
type memory struct {
	mu        sync.Mutex
	now       func() time.Time
	todos     map[string]*todoRecord
	approvals map[string]*approvalRecord
	files     map[string]fileRecord
}

func newMemory(now func() time.Time) *memory {
	return &memory{
		now:       now,
		todos:     make(map[string]*todoRecord),
		approvals: make(map[string]*approvalRecord),
		files:     make(map[string]fileRecord),
	}
}

// seedApprovals 为每个用户生成几条待处理审批
// seedApprovals gives every user a few pending approvals
func (m *memory) seedApprovals(users []Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seeds := []struct {
		typ    int
		title  string
		reason string
	}{
		{2, "年假申请", "家中有事"},
		{5, "差旅报销", "客户拜访"},
		{11, "周末加班", "版本上线"},
	}
	created := m.now().Unix()
	for _, u := range users {
		for i, s := range seeds {
			id := uuid.NewString()
			m.approvals[id] = &approvalRecord{
				ID:       id,
				No:       approvalNo(id),
				Type:     s.typ,
				Title:    s.title,
				Status:   approvalProcessed,
				UserID:   u.ID,
				UserName: u.Name,
				Reason:   s.reason,
				CreateAt: created + int64(i),
			}
		}
	}
}

// approvalNo 11 位数字编号
// approvalNo is an 11-digit number derived from the id
func approvalNo(id string) string {
	var b strings.Builder
	for _, c := range strings.ReplaceAll(id, "-", "") {
		if b.Len() == 11 {
			break
		}
		b.WriteByte(byte('0' + int(c)%10))
	}
	return b.String()
}

func (m *memory) addTodo(t todoRecord) todoRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.NewString()
	t.Status = todoInProgress
	t.CreateAt = m.now().Unix()
	if t.ExecuteIDs == nil {
		t.ExecuteIDs = []string{}
	}
	m.todos[t.ID] = &t
	return t
}

func (m *memory) todo(id string) (todoRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok {
		return todoRecord{}, false
	}
	return m.withTimeout(*t), true
}

// listTodos userID 为空时返回全部，否则返回其创建或执行的待办
// listTodos returns everything for an empty userID, else the todos it created or executes
func (m *memory) listTodos(userID string) []todoRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]todoRecord, 0, len(m.todos))
	for _, t := range m.todos {
		if userID != "" && t.CreatorID != userID && !slices.Contains(t.ExecuteIDs, userID) {
			continue
		}
		out = append(out, m.withTimeout(*t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreateAt != out[j].CreateAt {
			return out[i].CreateAt > out[j].CreateAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// withTimeout 已过截止时间且仍在进行中的待办显示为超时
// withTimeout reports in-progress todos past their deadline as timed out
func (m *memory) withTimeout(t todoRecord) todoRecord {
	if t.Status == todoInProgress && t.DeadlineAt > 0 && m.now().Unix() > t.DeadlineAt {
		t.Status = todoTimeout
	}
	return t
}

func (m *memory) finishTodo(id string) (todoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok {
		return todoRecord{}, notFound("todo not found")
	}
	switch t.Status {
	case todoFinished:
		return todoRecord{}, badRequest("该待办已完成")
	case todoCancel:
		return todoRecord{}, badRequest("该待办已取消")
	}
	t.Status = todoFinished
	return *t, nil
}

func (m *memory) deleteTodo(id string) (todoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok {
		return todoRecord{}, notFound("todo not found")
	}
	delete(m.todos, id)
	return *t, nil
}

func (m *memory) listApprovals(userID string, typ int) []approvalRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]approvalRecord, 0, len(m.approvals))
	for _, a := range m.approvals {
		if userID != "" && a.UserID != userID {
			continue
		}
		if typ != 0 && a.Type != typ {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreateAt != out[j].CreateAt {
			return out[i].CreateAt < out[j].CreateAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// disposeApproval decision 1=通过 2=驳回；已结束的审批不能再处理
// disposeApproval takes decision 1=pass 2=reject; closed approvals cannot be disposed again
func (m *memory) disposeApproval(id string, decision int, reason string) (approvalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.approvals[id]
	if !ok {
		return approvalRecord{}, notFound("approval not found")
	}
	switch a.Status {
	case approvalCancel:
		return approvalRecord{}, badRequest("该审核已撤销")
	case approvalPass, approvalAutoPass:
		return approvalRecord{}, badRequest("该审核已通过")
	case approvalRefuse:
		return approvalRecord{}, badRequest("该审核已拒绝")
	}
	switch decision {
	case 1:
		a.Status = approvalPass
	case 2:
		a.Status = approvalRefuse
	default:
		return approvalRecord{}, badRequest("unknown dispose status")
	}
	if reason != "" {
		a.Reason = reason
	}
	return *a, nil
}

func (m *memory) saveFile(name string, content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := uuid.NewString() + extOf(name)
	m.files[key] = fileRecord{Name: name, Size: len(content), Content: content}
	return key
}

func (m *memory) file(key string) (fileRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[key]
	return f, ok
}

func extOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || strings.ContainsAny(name[idx:], "/\\") {
		return ""
	}
	return name[idx:]
}
