package gst

import "time"

// FilingStatus is the lifecycle state of a return.
type FilingStatus string

const (
	FilingPending FilingStatus = "pending"
	FilingFiled   FilingStatus = "filed"
)

// FilingRecord is the slice of a return the compliance score looks at.
type FilingRecord struct {
	DueDate   time.Time
	Status    FilingStatus
	FiledDate *time.Time
}

// Weights configures the compliance heuristic. The numbers are a product
// heuristic rather than statutory policy.
type Weights struct {
	Base           int
	OverduePenalty int
	LatePenalty    int
	OnTimeBonus    int
	BonusCap       int
	Excellent      int
	Good           int
	Fair           int
}

// DefaultWeights returns the stock scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Base:           100,
		OverduePenalty: 15,
		LatePenalty:    5,
		OnTimeBonus:    2,
		BonusCap:       10,
		Excellent:      90,
		Good:           70,
		Fair:           50,
	}
}

// Ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

// Suggestions returned with a score.
const (
	SuggestionOverdue = "File your overdue returns immediately to stop late fees and interest from accruing."
	SuggestionPayDues = "Clear outstanding tax along with the pending returns to avoid further interest."
	SuggestionLate    = "Some returns were filed after their due date. Set reminders ahead of each due date."
	SuggestionOnTrack = "All returns are filed on time. Keep it up."
)

// ComplianceScore is the result of Score.
type ComplianceScore struct {
	Score        int      `json:"score"`
	Rating       string   `json:"rating"`
	OverdueCount int      `json:"overdue_count"`
	LateCount    int      `json:"late_count"`
	OnTimeCount  int      `json:"on_time_count"`
	Suggestions  []string `json:"suggestions"`
}

// Score rates a business's filing history as of today.
func Score(records []FilingRecord, today time.Time, w Weights) ComplianceScore {
	var res ComplianceScore
	for i := range records {
		r := &records[i]
		switch r.Status {
		case FilingPending:
			if DaysLate(r.DueDate, today) > 0 {
				res.OverdueCount++
			}
		case FilingFiled:
			if r.FiledDate != nil && DaysLate(r.DueDate, *r.FiledDate) > 0 {
				res.LateCount++
			} else {
				res.OnTimeCount++
			}
		}
	}

	bonus := res.OnTimeCount * w.OnTimeBonus
	if bonus > w.BonusCap {
		bonus = w.BonusCap
	}
	score := w.Base - res.OverdueCount*w.OverduePenalty - res.LateCount*w.LatePenalty + bonus
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	res.Score = score
	res.Rating = rating(score, w)

	switch {
	case res.OverdueCount > 0:
		res.Suggestions = []string{SuggestionOverdue, SuggestionPayDues}
	case res.LateCount > 0:
		res.Suggestions = []string{SuggestionLate}
	default:
		res.Suggestions = []string{SuggestionOnTrack}
	}
	return res
}

func rating(score int, w Weights) string {
	switch {
	case score >= w.Excellent:
		return RatingExcellent
	case score >= w.Good:
		return RatingGood
	case score >= w.Fair:
		return RatingFair
	default:
		return RatingPoor
	}
}
