package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// maxUploadBytes 上传大小上限
// maxUploadBytes caps one upload
const maxUploadBytes = 32 << 20

type loginResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	AccessExpire int64  `json:"accessExpire"`
}

type todoReq struct {
	Title      string   `json:"title"`
	DeadlineAt int64    `json:"deadlineAt"`
	ExecuteIDs []string `json:"executeIds"`
	Desc       string   `json:"desc"`
}

type finishReq struct {
	TodoID string `json:"todoId"`
}

type disposeReq struct {
	ApprovalID string `json:"approvalId"`
	Status     int    `json:"status"`
	Reason     string `json:"reason"`
}

type chatReq struct {
	Prompts string `json:"prompts"`
}

type fileResp struct {
	Host     string `json:"host"`
	File     string `json:"file"`
	Filename string `json:"filename"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(fmt.Sprintf("invalid body: %v", err))
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")
	want, known := s.cfg.Users[name]
	if name == "" || !known {
		fail(w, badRequest("用户不存在"))
		return
	}
	if password != want {
		fail(w, badRequest("密码错误"))
		return
	}
	u := Identity{ID: userID(name), Name: name}
	tok, exp, err := s.issuer.issue(u)
	if err != nil {
		fail(w, err)
		return
	}
	s.logger.Info("login", "name", name, "uid", u.ID)
	okWithData(w, loginResp{ID: u.ID, Name: u.Name, Token: tok, AccessExpire: exp})
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	t, found := s.mem.todo(mux.Vars(r)["id"])
	if !found {
		fail(w, notFound("todo not found"))
		return
	}
	okWithData(w, t)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req todoReq
	if err := decodeBody(r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		fail(w, badRequest("title is required"))
		return
	}
	uid := uidFrom(r.Context())
	t := s.mem.addTodo(todoRecord{
		CreatorID:   uid,
		CreatorName: s.nameOf(uid),
		Title:       req.Title,
		DeadlineAt:  req.DeadlineAt,
		Desc:        req.Desc,
		ExecuteIDs:  req.ExecuteIDs,
	})
	s.pushTodo("created", t)
	ok(w)
}

func (s *Server) finishTodo(w http.ResponseWriter, r *http.Request) {
	var req finishReq
	if err := decodeBody(r, &req); err != nil {
		fail(w, err)
		return
	}
	t, err := s.mem.finishTodo(req.TodoID)
	if err != nil {
		fail(w, err)
		return
	}
	s.pushTodo("finished", t)
	ok(w)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	t, err := s.mem.deleteTodo(mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	s.pushTodo("deleted", t)
	ok(w)
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	okWithData(w, s.mem.listTodos(strings.TrimSpace(r.URL.Query().Get("userId"))))
}

func (s *Server) listApprovals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ := 0
	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(w, badRequest("invalid type"))
			return
		}
		typ = n
	}
	okWithData(w, s.mem.listApprovals(strings.TrimSpace(q.Get("userId")), typ))
}

func (s *Server) disposeApproval(w http.ResponseWriter, r *http.Request) {
	var req disposeReq
	if err := decodeBody(r, &req); err != nil {
		fail(w, err)
		return
	}
	a, err := s.mem.disposeApproval(req.ApprovalID, req.Status, req.Reason)
	if err != nil {
		fail(w, err)
		return
	}
	s.hub.notify(a.UserID, Notice{Type: "approval", Action: "disposed", Data: a})
	ok(w)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := decodeBody(r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.Prompts) == "" {
		fail(w, badRequest("prompts is required"))
		return
	}
	reply, err := s.responder.Reply(r.Context(), req.Prompts)
	if err != nil {
		s.logger.Warn("chat", "err", err)
		fail(w, err)
		return
	}
	uid := uidFrom(r.Context())
	s.hub.notify(uid, Notice{Type: "chat", Msg: reply})
	okWithData(w, reply)
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, badRequest(fmt.Sprintf("no file: %v", err)))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		fail(w, err)
		return
	}
	key := s.mem.saveFile(header.Filename, content)
	resp := fileResp{
		Host:     s.host(r),
		File:     uploadPrefix + key,
		Filename: key,
	}
	if r.FormValue("chat") != "" {
		s.hub.notify(uidFrom(r.Context()), Notice{Type: "upload", Msg: header.Filename, Data: resp})
	}
	s.logger.Info("upload", "name", header.Filename, "size", len(content))
	okWithData(w, resp)
}

func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	f, found := s.mem.file(mux.Vars(r)["key"])
	if !found {
		fail(w, notFound("file not found"))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	_, _ = w.Write(f.Content)
}

func (s *Server) pushTodo(action string, t todoRecord) {
	n := Notice{Type: "todo", Action: action, Data: t}
	s.hub.notify(t.CreatorID, n)
	for _, id := range t.ExecuteIDs {
		if id != t.CreatorID {
			s.hub.notify(id, n)
		}
	}
}

func (s *Server) host(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
