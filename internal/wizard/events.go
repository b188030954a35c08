package wizard

// EventKind 浏览器侧散落的回调（popstate、focus、定时器）收敛成的事件枚举，
// 全部走 Session.Reconcile 一个入口。
type EventKind int

const (
	// EventPopState 浏览器前进/后退，携带 history state 或退化为 URL query
	EventPopState EventKind = iota + 1
	// EventFocusRegained 页面重新获得焦点，触发一次一致性检查
	EventFocusRegained
	// EventConsistencyTick 周期一致性检查
	EventConsistencyTick
)

// Event 导航事件。PopState 优先使用携带的 Step/Branch，
// Step 为 0 时回退解析 Query。
type Event struct {
	Kind         EventKind
	Step         int
	Branch       Branch
	BranchPlanID string
	Query        string
}

// ParseEventKind HTTP 层的字符串映射。
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "popstate":
		return EventPopState, true
	case "focus":
		return EventFocusRegained, true
	case "tick":
		return EventConsistencyTick, true
	default:
		return 0, false
	}
}
