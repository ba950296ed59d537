package handler

type attemptRequest struct {
	ExamID          string `json:"exam_id"          validate:"required"`
	Correct         int    `json:"correct"          validate:"gte=0,ltefield=ClosedTotal"`
	ClosedTotal     int    `json:"closed_total"     validate:"gte=0"`
	OpenTotal       int    `json:"open_total"       validate:"gte=0"`
	Answered        int    `json:"answered"         validate:"gte=0"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	TimedOut        bool   `json:"timed_out"`
}

type statisticsQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}
