package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type NewAccountMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"` // minutos
}

type ImportSummaryMailData struct {
	SourceName string   `json:"sourceName"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

type WeeklyReportMailData struct {
	WeekStart string               `json:"weekStart"`
	ByKind    []*AnomalySummaryRow `json:"byKind"`
	ByArea    []*AnomalySummaryRow `json:"byArea"`
}
