package models

type Tournament struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TournamentDate Date   `json:"tournament_date"`
	Location       string `json:"location"`
	Description    string `json:"description,omitempty"`
}

type TournamentInput struct {
	Name           string  `json:"name" validate:"required,notblank,max=200"`
	TournamentDate Date    `json:"tournament_date"`
	Location       string  `json:"location" validate:"required,notblank,max=200"`
	Description    *string `json:"description"`
}

type Participation struct {
	ID             string `json:"id"`
	TournamentID   string `json:"tournament_id"`
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name,omitempty"`
	Place          *int   `json:"place"`
	TotalFights    int    `json:"total_fights"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	WeightCategory string `json:"weight_category,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (p Participation) PlaceLabel() string {
	if p.Place == nil {
		return "-"
	}
	return itoa(*p.Place)
}

type ParticipationInput struct {
	StudentID      string  `json:"student_id,omitempty" validate:"omitempty,uuid"`
	Place          *int    `json:"place" validate:"omitempty,gte=1"`
	TotalFights    int     `json:"total_fights" validate:"gte=0"`
	Wins           int     `json:"wins" validate:"gte=0,ltefield=TotalFights"`
	Losses         int     `json:"losses" validate:"gte=0,ltefield=TotalFights"`
	WeightCategory *string `json:"weight_category" validate:"omitempty,max=50"`
	Notes          *string `json:"notes"`
}
