package widget

import "fmt"

// Level classifies a notice for display.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient, user-visible message produced by a widget operation.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + ": " + n.Message
}

// Notifier receives notices. It is called without the widget lock held.
type Notifier func(Notice)

func authRequired(action string) Notice {
	return Notice{Level: LevelError, Title: "Authentication required", Message: "Please log in to " + action}
}

func flagAdded(kind fmt.Stringer) Notice {
	return Notice{Level: LevelSuccess, Title: "Success", Message: fmt.Sprintf("Project marked as %s", kind)}
}

func flagRemoved(kind fmt.Stringer) Notice {
	return Notice{Level: LevelInfo, Title: "Removed", Message: fmt.Sprintf("Project %s status removed", kind)}
}

func ratingChanged(title string, value int) Notice {
	if value == 0 {
		return Notice{Level: LevelInfo, Title: "Rating removed"}
	}
	return Notice{Level: LevelSuccess, Title: title, Message: fmt.Sprintf("You rated this %d/5", value)}
}

var (
	interactionFailed = Notice{Level: LevelError, Title: "Error", Message: "Failed to update interaction"}
	ratingFailed      = Notice{Level: LevelError, Title: "Error", Message: "Failed to update rating"}
	loadFailed        = Notice{Level: LevelError, Title: "Error", Message: "Failed to load interactions"}
)
