package handler

type ContextKey string

var (
	RoleCtxKey        ContextKey = "role"
	SubCtxKey         ContextKey = "sub"
	MyInfoCtx         ContextKey = "myInfo"
	TrainerProfileCtx ContextKey = "trainerProfile"
	ShiftRequestCtx   ContextKey = "shiftRequest"
	TimesheetCtx      ContextKey = "timesheet"
)
