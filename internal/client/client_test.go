package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"apiconsole/internal/session"
	"apiconsole/internal/storage"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(r *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func newTestClient(t *testing.T, baseURL string, httpClient *http.Client) *Client {
	t.Helper()
	sess, err := session.Load(storage.NewMemoryStore(), baseURL)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	return New(sess, Options{HTTPClient: httpClient})
}

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

// serve 启动记录请求的测试服务器 / serve starts a test server that records the last request
func serve(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.header = r.Header.Clone()
		got.body = string(data)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestURLJoin(t *testing.T) {
	c := newTestClient(t, "http://api.test", nil)
	cases := map[string]string{
		"/v1/todo":  "http://api.test/v1/todo",
		"v1/todo":   "http://api.test/v1/todo",
		"//v1/todo": "http://api.test//v1/todo",
	}
	for in, want := range cases {
		if got := c.URL(in); got != want {
			t.Fatalf("URL(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestConfigureBaseURL(t *testing.T) {
	c := newTestClient(t, "http://api.test", nil)
	err := c.ConfigureBaseURL("   ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if c.Session().BaseURL() != "http://api.test" {
		t.Fatalf("base url changed: %q", c.Session().BaseURL())
	}
	if err := c.ConfigureBaseURL(" http://other.test "); err != nil {
		t.Fatalf("ConfigureBaseURL: %v", err)
	}
	if c.URL("x") != "http://other.test/x" {
		t.Fatalf("URL after change=%q", c.URL("x"))
	}
}

func TestRequestAuthHeader(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	if _, err := c.Request(ctx, "v1/ping", RequestOptions{}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if h := got.header.Get("Authorization"); h != "" {
		t.Fatalf("unexpected Authorization %q without token", h)
	}

	if err := c.Session().SetToken("abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Request(ctx, "v1/ping", RequestOptions{}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if h := got.header.Get("Authorization"); h != "Bearer abc" {
		t.Fatalf("Authorization=%q", h)
	}

	if _, err := c.Request(ctx, "v1/ping", RequestOptions{SkipAuth: true}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if h := got.header.Get("Authorization"); h != "" {
		t.Fatalf("Authorization=%q with SkipAuth", h)
	}
}

func TestRequestContentType(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	if _, err := c.Request(ctx, "a", RequestOptions{Method: "post", Body: `{"k":1}`}); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.header.Get("Content-Type") != "application/json" {
		t.Fatalf("method=%s content-type=%q", got.method, got.header.Get("Content-Type"))
	}
	if got.body != `{"k":1}` {
		t.Fatalf("body=%q", got.body)
	}

	_, err := c.Request(ctx, "a", RequestOptions{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.header.Get("Content-Type") != "text/plain" {
		t.Fatalf("caller content-type overwritten: %q", got.header.Get("Content-Type"))
	}

	if _, err := c.Request(ctx, "a", RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if got.header.Get("Content-Type") != "" {
		t.Fatalf("GET without body got content-type %q", got.header.Get("Content-Type"))
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, nil)
	if _, err := c.Request(context.Background(), "a", RequestOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(got.header.Get("X-Request-Id")); err != nil {
		t.Fatalf("X-Request-Id=%q: %v", got.header.Get("X-Request-Id"), err)
	}
}

func TestRequestTolerantDecode(t *testing.T) {
	for _, body := range []string{"", "not json", "null", "  "} {
		srv, _ := serve(t, http.StatusOK, body)
		c := newTestClient(t, srv.URL, nil)
		resp, err := c.Request(context.Background(), "a", RequestOptions{})
		if err != nil {
			t.Fatalf("body %q: %v", body, err)
		}
		m, ok := resp.(map[string]any)
		if !ok || len(m) != 0 {
			t.Fatalf("body %q: got %#v, want empty map", body, resp)
		}
	}
}

func TestRequestHTTPError(t *testing.T) {
	srv, _ := serve(t, http.StatusNotFound, `{"msg":"missing"}`)
	c := newTestClient(t, srv.URL, nil)
	_, err := c.Request(context.Background(), "a", RequestOptions{})
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if herr.StatusCode != 404 || herr.Status != "Not Found" {
		t.Fatalf("HTTPError=%+v", herr)
	}
	if herr.Error() != "404 Not Found" {
		t.Fatalf("Error()=%q", herr.Error())
	}
}

func TestLoginTokenShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"nested", `{"code":200,"data":{"token":"t1"}}`, "t1"},
		{"top", `{"token":"t2"}`, "t2"},
		{"access", `{"AccessToken":"t3","AccessExpire":100}`, "t3"},
		{"order", `{"data":{"token":"first"},"token":"second","AccessToken":"third"}`, "first"},
		{"empty nested", `{"data":{"token":""},"token":"t4"}`, "t4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, got := serve(t, http.StatusOK, tc.body)
			c := newTestClient(t, srv.URL, nil)
			_ = c.Session().SetToken("stale")

			res, err := c.Login(context.Background(), RoleAdmin, Credentials{Name: "admin", Password: "p w"})
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if res.Token != tc.want || c.Session().Token() != tc.want {
				t.Fatalf("token=%q session=%q, want %q", res.Token, c.Session().Token(), tc.want)
			}
			if got.method != http.MethodPost || got.path != "/v1/user/login" {
				t.Fatalf("request %s %s", got.method, got.path)
			}
			if got.header.Get("Authorization") != "" {
				t.Fatalf("login must not send Authorization")
			}
			if !strings.HasPrefix(got.header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				t.Fatalf("content-type=%q", got.header.Get("Content-Type"))
			}
			if got.body != "name=admin&password=p+w" {
				t.Fatalf("form body=%q", got.body)
			}
		})
	}
}

func TestLoginWithoutToken(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"code":200,"data":{}}`)
	c := newTestClient(t, srv.URL, nil)
	_, err := c.Login(context.Background(), RoleUser, Credentials{Name: "u", Password: "x"})
	var aerr *AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if c.Session().HasToken() {
		t.Fatalf("token must stay empty")
	}
}

func TestListTodosEndToEnd(t *testing.T) {
	var gotURL, gotAuth, gotMethod string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		return jsonResponse(r, `{"List":[{"ID":"t-1","title":"write docs","todoStatus":0,"deadlineAt":1700000000}]}`), nil
	})}
	c := newTestClient(t, "http://api.test", hc)
	if err := c.Session().SetToken("abc"); err != nil {
		t.Fatal(err)
	}

	todos, err := c.ListTodos(context.Background(), TodoFilter{})
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if gotMethod != http.MethodGet || gotURL != "http://api.test/v1/todo/list" {
		t.Fatalf("request %s %s", gotMethod, gotURL)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("Authorization=%q", gotAuth)
	}
	if len(todos) != 1 {
		t.Fatalf("todos=%+v", todos)
	}
	td := todos[0]
	if td.ID != "t-1" || td.Title != "write docs" || td.Status != "0" || td.DeadlineAt != 1700000000 {
		t.Fatalf("todo=%+v", td)
	}
}

func TestListTodosUserFilter(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"data":[{"id":"a","status":1},{"id":"b","status":2}]}`)
	c := newTestClient(t, srv.URL, nil)
	todos, err := c.ListTodos(context.Background(), TodoFilter{UserID: " u1 "})
	if err != nil {
		t.Fatal(err)
	}
	if got.query != "userId=u1" {
		t.Fatalf("query=%q", got.query)
	}
	if len(todos) != 2 || todos[1].ID != "b" || TodoStatusLabel(todos[1].Status) != "已完成" {
		t.Fatalf("todos=%+v", todos)
	}
}

func TestCreateTodoPayload(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"code":200}`)
	c := newTestClient(t, srv.URL, nil)

	_, err := c.CreateTodo(context.Background(), TodoInput{
		Title:      "ship",
		DeadlineAt: "soon",
		ExecuteIDs: " a, b ,,c",
		Desc:       "d",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.path != "/v1/todo" {
		t.Fatalf("request %s %s", got.method, got.path)
	}
	var payload struct {
		Title      string   `json:"title"`
		DeadlineAt int64    `json:"deadlineAt"`
		ExecuteIDs []string `json:"executeIds"`
		Desc       string   `json:"desc"`
	}
	if err := json.Unmarshal([]byte(got.body), &payload); err != nil {
		t.Fatalf("payload %q: %v", got.body, err)
	}
	if payload.Title != "ship" || payload.DeadlineAt != 0 || payload.Desc != "d" {
		t.Fatalf("payload=%+v", payload)
	}
	if strings.Join(payload.ExecuteIDs, "|") != "a|b|c" {
		t.Fatalf("executeIds=%v", payload.ExecuteIDs)
	}

	if _, err := c.CreateTodo(context.Background(), TodoInput{Title: "x", DeadlineAt: "1700000000"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.body, `"executeIds":[]`) || !strings.Contains(got.body, `"deadlineAt":1700000000`) {
		t.Fatalf("body=%s", got.body)
	}
}

func TestFinishAndDeleteTodo(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, nil)
	ctx := context.Background()

	if _, err := c.FinishTodo(ctx, "t-9"); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodPost || got.path != "/v1/todo/finish" || got.body != `{"todoId":"t-9"}` {
		t.Fatalf("finish %s %s %s", got.method, got.path, got.body)
	}
	if _, err := c.DeleteTodo(ctx, "t-9"); err != nil {
		t.Fatal(err)
	}
	if got.method != http.MethodDelete || got.path != "/v1/todo/t-9" {
		t.Fatalf("delete %s %s", got.method, got.path)
	}
}

func TestListApprovals(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"data":[{"id":"p1","type":2,"status":1,"title":"leave"}],"List":[{"id":"ignored"}]}`)
	c := newTestClient(t, srv.URL, nil)
	items, err := c.ListApprovals(context.Background(), ApprovalFilter{UserID: "u", Type: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if got.query != "userId=u&type=2" {
		t.Fatalf("query=%q", got.query)
	}
	if len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("items=%+v", items)
	}
	if ApprovalTypeLabel(items[0].Type) != "请假" || ApprovalStatusLabel(items[0].Status) != "处理中" {
		t.Fatalf("labels type=%q status=%q", items[0].Type, items[0].Status)
	}
}

func TestListApprovalsSkipsEmptyFilters(t *testing.T) {
	cases := []struct {
		name   string
		filter ApprovalFilter
		want   string
	}{
		{"none", ApprovalFilter{}, ""},
		{"blank", ApprovalFilter{UserID: "  ", Type: ""}, ""},
		{"type only", ApprovalFilter{Type: "5"}, "type=5"},
		{"user only", ApprovalFilter{UserID: "u 1"}, "userId=u+1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, got := serve(t, http.StatusOK, `{"data":[]}`)
			c := newTestClient(t, srv.URL, nil)
			if _, err := c.ListApprovals(context.Background(), tc.filter); err != nil {
				t.Fatal(err)
			}
			if got.path != "/v1/approval/list" || got.query != tc.want {
				t.Fatalf("path=%q query=%q, want %q", got.path, got.query, tc.want)
			}
		})
	}
}

func TestDisposeApprovalReasons(t *testing.T) {
	cases := []struct {
		name     string
		in       Disposition
		wantBody string
	}{
		{"pass", Disposition{ID: "p1", Decision: DecisionPass}, `{"approvalId":"p1","status":1,"reason":""}`},
		{"reject default", Disposition{ID: "p1", Decision: DecisionReject}, `{"approvalId":"p1","status":2,"reason":"不同意"}`},
		{"reject reason", Disposition{ID: "p1", Decision: DecisionReject, Reason: "too long"}, `{"approvalId":"p1","status":2,"reason":"too long"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, got := serve(t, http.StatusOK, `{}`)
			c := newTestClient(t, srv.URL, nil)
			if _, err := c.DisposeApproval(context.Background(), tc.in); err != nil {
				t.Fatal(err)
			}
			if got.method != http.MethodPut || got.path != "/v1/approval/dispose" {
				t.Fatalf("request %s %s", got.method, got.path)
			}
			if got.body != tc.wantBody {
				t.Fatalf("body=%s, want %s", got.body, tc.wantBody)
			}
		})
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL)
		return nil, nil
	})}
	c := newTestClient(t, "http://api.test", hc)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["create"] = c.CreateTodo(ctx, TodoInput{Title: "  "})
	_, checks["finish"] = c.FinishTodo(ctx, "")
	_, checks["delete"] = c.DeleteTodo(ctx, " ")
	_, checks["dispose"] = c.DisposeApproval(ctx, Disposition{Decision: DecisionPass})
	_, checks["chat"] = c.SendChat(ctx, "")
	_, checks["upload"] = c.UploadFile(ctx, Upload{})
	_, checks["login"] = c.Login(ctx, RoleAdmin, Credentials{})
	for name, err := range checks {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestSendChat(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"code":200,"data":{"reply":"hi"}}`)
	c := newTestClient(t, srv.URL, nil)
	out, err := c.SendChat(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if got.body != `{"prompts":"hello"}` || got.path != "/v1/chat" {
		t.Fatalf("request %s %s", got.path, got.body)
	}
	m, ok := out.(map[string]any)
	if !ok || m["reply"] != "hi" {
		t.Fatalf("reply=%#v", out)
	}

	srv2, _ := serve(t, http.StatusOK, `{"msg":"echo"}`)
	c2 := newTestClient(t, srv2.URL, nil)
	out, err = c2.SendChat(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := out.(map[string]any); !ok || m["msg"] != "echo" {
		t.Fatalf("whole response expected, got %#v", out)
	}
}

func TestUploadFile(t *testing.T) {
	var fileBody, chatField, filename, auth, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		fileBody = string(data)
		filename = hdr.Filename
		chatField = r.FormValue("chat")
		_, _ = io.WriteString(w, `{"host":"http://files.test","file":"/u/1.txt","filename":"notes.txt"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	_ = c.Session().SetToken("tok")
	res, err := c.UploadFile(context.Background(), Upload{
		Name:         "/tmp/notes.txt",
		Content:      strings.NewReader("hello file"),
		AttachToChat: true,
	})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Fatalf("content-type=%q", contentType)
	}
	if auth != "Bearer tok" || fileBody != "hello file" || filename != "notes.txt" || chatField != "1" {
		t.Fatalf("auth=%q body=%q name=%q chat=%q", auth, fileBody, filename, chatField)
	}
	if res.Host != "http://files.test" || res.File != "/u/1.txt" || res.Filename != "notes.txt" {
		t.Fatalf("result=%+v", res)
	}
}
