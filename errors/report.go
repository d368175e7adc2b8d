package errors

// Report is the structure the driver prints when a run fails.
type Report struct {
	Error ReportBody `json:"error"`
}

// ReportBody contains the failure details shown to the user.
type ReportBody struct {
	Code     ErrorCode      `json:"code"`
	Message  string         `json:"message"`
	ExitCode int            `json:"exit_code"`
	Cause    string         `json:"cause,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// ToReport converts an AppError to a Report for JSON serialization.
func (e *AppError) ToReport() Report {
	body := ReportBody{
		Code:     e.Code,
		Message:  e.Message,
		ExitCode: e.ExitCode,
		Details:  e.Details,
	}
	if e.Cause != nil {
		body.Cause = e.Cause.Error()
	}
	return Report{Error: body}
}

// ReportOf builds a Report for any error, wrapping foreign errors as internal.
func ReportOf(err error) Report {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ToReport()
	}
	return Internal(err).ToReport()
}
