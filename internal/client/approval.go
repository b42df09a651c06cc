package client

import (
	"context"
	"net/http"
	"strings"
)

// DefaultRejectReason 驳回且未填写理由时发送的默认理由
// DefaultRejectReason is sent when a rejection carries no reason
const DefaultRejectReason = "不同意"

// Decision 审批处理结果；线上取值 1=通过 2=驳回
// Decision is the approval outcome; on the wire 1=pass 2=reject
type Decision int

const (
	DecisionPass   Decision = 1
	DecisionReject Decision = 2
)

func (d Decision) String() string {
	if d == DecisionReject {
		return "reject"
	}
	return "pass"
}

type Approval struct {
	ID     string
	No     string
	Type   string
	Title  string
	Status string
	User   string
	Reason string
	Raw    map[string]any
}

type ApprovalFilter struct {
	UserID string
	Type   string
}

type Disposition struct {
	ID       string
	Decision Decision
	// Reason 驳回时为空则使用 DefaultRejectReason；通过时为空即发送空串
	// Reason defaults to DefaultRejectReason for rejections; passes send it as-is
	Reason string
}

type disposePayload struct {
	ApprovalID string   `json:"approvalId"`
	Status     Decision `json:"status"`
	Reason     string   `json:"reason"`
}

func (c *Client) ListApprovals(ctx context.Context, filter ApprovalFilter) ([]Approval, error) {
	path := withQuery("v1/approval/list", "userId", filter.UserID, "type", filter.Type)
	resp, err := c.Request(ctx, path, RequestOptions{})
	if err != nil {
		return nil, err
	}
	items := ExtractList(resp, "data")
	out := make([]Approval, 0, len(items))
	for _, item := range items {
		out = append(out, approvalFromItem(item))
	}
	return out, nil
}

func (c *Client) DisposeApproval(ctx context.Context, d Disposition) (any, error) {
	if strings.TrimSpace(d.ID) == "" {
		return nil, &ValidationError{Field: "approvalId", Message: "approval id is required"}
	}
	if d.Decision != DecisionPass && d.Decision != DecisionReject {
		return nil, &ValidationError{Field: "status", Message: "decision must be pass or reject"}
	}
	reason := d.Reason
	if d.Decision == DecisionReject && strings.TrimSpace(reason) == "" {
		reason = DefaultRejectReason
	}
	return c.Request(ctx, "v1/approval/dispose", RequestOptions{
		Method: http.MethodPut,
		Body: disposePayload{
			ApprovalID: d.ID,
			Status:     d.Decision,
			Reason:     reason,
		},
	})
}

func approvalFromItem(item map[string]any) Approval {
	return Approval{
		ID:     firstTruthy(item, "id", "ID"),
		No:     Stringify(item["no"]),
		Type:   firstPresent(item, "type"),
		Title:  Stringify(item["title"]),
		Status: firstPresent(item, "status"),
		User:   firstTruthy(item, "userName", "userId"),
		Reason: Stringify(item["reason"]),
		Raw:    item,
	}
}

var approvalTypeLabels = map[string]string{
	"1":  "通用",
	"2":  "请假",
	"3":  "补卡",
	"4":  "外出",
	"5":  "报销",
	"6":  "付款",
	"7":  "采购",
	"8":  "收款",
	"9":  "转正",
	"10": "离职",
	"11": "加班",
	"12": "合同",
}

func ApprovalTypeLabel(t string) string {
	if label, ok := approvalTypeLabels[t]; ok {
		return label
	}
	return t
}

func ApprovalStatusLabel(status string) string {
	switch status {
	case "0":
		return "未开始"
	case "1":
		return "处理中"
	case "2":
		return "通过"
	case "3":
		return "拒绝"
	case "4":
		return "撤销"
	case "5":
		return "自动通过"
	}
	return status
}
