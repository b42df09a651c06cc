package i18n

// ZhCNMessages 中文消息目录
// ZhCNMessages Chinese message catalog
var ZhCNMessages = map[string]string{
	"panel.todos":     "待办",
	"panel.approvals": "审批",
	"panel.chat":      "对话",
	"panel.log":       "日志",

	"status.base":       "后端",
	"status.logged_in":  "已登录（%s）",
	"status.logged_out": "未登录",
	"status.ws_open":    "ws：已连接",
	"status.ws_closed":  "ws：未连接",
	"status.ready":      "就绪",
	"status.busy":       "处理中...",

	"ws.connected":     "WebSocket 已连接",
	"ws.received":      "收到: %s",
	"ws.closed":        "WebSocket 已关闭",
	"ws.error":         "WebSocket 错误: %s",
	"ws.already":       "WebSocket 已经连接",
	"ws.not_connected": "WebSocket 未连接",

	"base.current":      "后端地址: %s",
	"base.saved":        "后端地址已保存: %s",
	"login.ok":          "已登录: %s",
	"login.failed":      "用户登录失败: %s",
	"logout.ok":         "已退出登录",
	"whoami.none":       "尚未登录",
	"whoami.token":      "令牌: %s",
	"whoami.user":       "用户: %s",
	"whoami.issued":     "签发时间: %s",
	"whoami.expires":    "过期时间: %s",
	"whoami.expired":    "令牌已过期",
	"whoami.opaque":     "令牌不是 JWT",
	"todo.created":      "待办已创建",
	"todo.finished":     "待办 %s 已完成",
	"todo.deleted":      "待办 %s 已删除",
	"todo.empty":        "暂无待办",
	"approval.disposed": "审批 %s: %s",
	"approval.empty":    "暂无审批",
	"chat.you":          "我",
	"chat.assistant":    "助手",
	"upload.ok":         "已上传 %s",
	"history.empty":     "暂无记录",
	"history.cleared":   "记录已清空",
	"unknown.command":   "未知命令: %s（输入 /help 查看帮助）",

	"error.request":    "请求失败: %s",
	"error.validation": "输入有误: %s",
	"error.auth":       "登录失败: %s",
	"error.usage":      "用法: %s",

	"col.id":       "ID",
	"col.title":    "标题",
	"col.status":   "状态",
	"col.deadline": "截止时间",
	"col.creator":  "创建人",
	"col.type":     "类型",
	"col.user":     "申请人",
	"col.reason":   "理由",

	"help.title":    "命令",
	"help.base":     "/base [url]                          查看或设置后端地址",
	"help.login":    "/login admin|user <用户名> <密码>     登录",
	"help.whoami":   "/whoami                              查看令牌声明",
	"help.logout":   "/logout                              清除令牌",
	"help.todo":     "/todo list [userId] | add <标题> [--deadline N] [--exec a,b] [--desc 描述] | finish <id> | delete <id>",
	"help.approval": "/approval list [userId] [type] | pass <id> [理由] | reject <id> [理由]",
	"help.chat":     "/chat <提示>（或直接输入文字）         发送对话",
	"help.upload":   "/upload <路径> [--chat]              上传文件",
	"help.ws":       "/ws connect [url] | disconnect       实时通知",
	"help.history":  "/history [n|clear]                   最近的对话与推送记录",
	"help.exit":     "/exit                                退出",

	"tui.input_placeholder": "输入命令或对话内容...",
	"tui.hint":              "tab 切换视图 · enter 发送 · ctrl+r 刷新 · ctrl+c 退出",
}
