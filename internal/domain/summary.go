package domain

// Summary is the counts report of one batch run
type Summary struct {
	EmailsSent      int `json:"emailsSent"`
	PushSent        int `json:"pushSent"`
	RemindersMissed int `json:"remindersMissed"`
	LoansProcessed  int `json:"loansProcessed"`
	LoansOverdue    int `json:"loansOverdue"`
	CalendarSynced  int `json:"googleAccountsSynced"`
	CalendarFailed  int `json:"googleSyncFailed"`
	Errors          int `json:"errors"`
}
