package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftRequestApprovedMailData struct {
	FullName    string `json:"fullName"`
	Service     string `json:"service"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	TrainerName string `json:"trainerName"`
}

type ShiftRequestDeclinedMailData struct {
	FullName  string `json:"fullName"`
	Service   string `json:"service"`
	StartTime string `json:"startTime"`
	Reason    string `json:"reason"`
}

type TimesheetReopenedMailData struct {
	FullName  string `json:"fullName"`
	WeekStart string `json:"weekStart"`
	Reason    string `json:"reason"`
}

type TimesheetItemRecordedMailData struct {
	FullName  string `json:"fullName"`
	Service   string `json:"service"`
	Minutes   int32  `json:"minutes"`
	WeekStart string `json:"weekStart"`
}
