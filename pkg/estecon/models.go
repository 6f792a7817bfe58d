package estecon

// Bill is a summary row from the bills listing.
type Bill struct {
	BillID           string `json:"bill_id"`
	Status           string `json:"status"`
	Title            string `json:"title"`
	Summary          string `json:"summary"`
	AuthorID         int    `json:"author_id"`
	Coauthors        []int  `json:"coauthors"`
	LegPeriod        string `json:"leg_period"`
	LastActionDate   string `json:"last_action_date"`
	PresentationDate string `json:"presentation_date"`
}

// BillDetail is the full record for a single bill.
type BillDetail struct {
	BillID           string `json:"bill_id"`
	Status           string `json:"status"`
	AuthorID         int    `json:"author_id"`
	Coauthors        []int  `json:"coauthors"`
	LegPeriod        string `json:"leg_period"`
	LastActionDate   string `json:"last_action_date"`
	PresentationDate string `json:"presentation_date"`
	CompleteText     string `json:"complete_text"`
	BancadaID        int    `json:"bancada_id"`
	BancadaName      string `json:"bancada_name"`
	BillApproved     bool   `json:"bill_approved"`
}

// BillEvents lists the procedural steps of a bill.
type BillEvents struct {
	BillID string `json:"bill_id"`
	Steps  []Step `json:"steps"`
}

// Step is one procedural event. Vote fields are only set for vote steps.
type Step struct {
	StepID      int      `json:"step_id"`
	StepType    string   `json:"step_type"`
	StepDate    string   `json:"step_date"`
	StepDetails string   `json:"step_details"`
	VoteEventID *string  `json:"vote_event_id"`
	VoteSum     *VoteSum `json:"vote_sum"`
	Votes       []Vote   `json:"votes"`
}

type VoteSum struct {
	Yes    int `json:"yes"`
	No     int `json:"no"`
	Absent int `json:"absent"`
}

type Vote struct {
	CongresistaID int    `json:"congresista_id"`
	Option        string `json:"option"`
}

// Congresista is a member of congress for a legislative period.
type Congresista struct {
	ID                string `json:"id"`
	Name              string `json:"nombre"`
	LegPeriod         string `json:"leg_period"`
	PartyName         string `json:"party_name"`
	BancadaName       string `json:"bancada_name"`
	ElectoralDistrict string `json:"dist_electoral"`
	Condition         string `json:"condicion"`
}

// CongresistaDetail extends Congresista with profile data.
type CongresistaDetail struct {
	Congresista
	Votation string `json:"votation"`
	Website  string `json:"website"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}
