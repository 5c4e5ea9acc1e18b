package transport

import "time"

type LeadResponse struct {
	ID         string    `json:"id"`
	LeadNumber string    `json:"leadNumber"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Mobile     string    `json:"mobile"`
	Topic      string    `json:"topic"`
	Stage      string    `json:"stage"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SubleadResponse struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"createdAt"`
}

type LegacyLeadResponse struct {
	LeadResponse
	Subleads []SubleadResponse `json:"subleads"`
	Contacts []ContactResponse `json:"contacts"`
}

type RecentLeadsResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}
