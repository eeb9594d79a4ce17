package workflow

// Alert is a failure the user has to acknowledge. Message is localized and
// ready to show; Err is the cause.
type Alert struct {
	Message string
	Err     error
}

func (a *Alert) Error() string {
	if a.Err == nil {
		return a.Message
	}
	return a.Message + ": " + a.Err.Error()
}

func (a *Alert) Unwrap() error { return a.Err }
