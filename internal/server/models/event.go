package models

// Calendar colors.
const (
	EventColorCompleted = "green"
	EventColorPending   = "navy"
	EventTextColor      = "white"
	EventBorderColor    = "black"
)

// Event is the calendar projection of a Todo.
type Event struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	Description string `json:"description"`
	FromTime    string `json:"from_time"`
	ToTime      string `json:"to_time"`
	Completed   bool   `json:"completed"`
	Color       string `json:"color"`
	TextColor   string `json:"textColor"`
	BorderColor string `json:"borderColor"`
}

// DayTodo is the projection returned by the todos-by-date feed.
type DayTodo struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	FromTime string `json:"from_time"`
	ToTime   string `json:"to_time"`
}
