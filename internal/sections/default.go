package sections

import "manifesto-reader/internal/domain"

// Default returns the section layout of the shipped 78-page manifesto.
func Default() *Catalog {
	c, err := NewCatalog([]domain.Section{
		{ID: "foreword", Title: "Foreword", ShortLabel: "Foreword", StartPage: 1},
		{ID: "economy", Title: "A Fair and Productive Economy", ShortLabel: "Economy", StartPage: 5},
		{ID: "work", Title: "Work, Wages and Skills", ShortLabel: "Work", StartPage: 12},
		{ID: "health", Title: "Health and Social Care", ShortLabel: "Health", StartPage: 18},
		{ID: "education", Title: "Education and Opportunity", ShortLabel: "Education", StartPage: 25},
		{ID: "housing", Title: "Homes and Communities", ShortLabel: "Housing", StartPage: 31},
		{ID: "energy", Title: "Energy and Climate", ShortLabel: "Energy", StartPage: 37},
		{ID: "agriculture", Title: "Agriculture and Rural Affairs", ShortLabel: "Rural", StartPage: 44},
		{ID: "transport", Title: "Transport and Infrastructure", ShortLabel: "Transport", StartPage: 50},
		{ID: "justice", Title: "Justice and Public Safety", ShortLabel: "Justice", StartPage: 56},
		{ID: "democracy", Title: "Democracy and Public Services", ShortLabel: "Democracy", StartPage: 63},
		{ID: "world", Title: "Our Place in the World", ShortLabel: "World", StartPage: 70},
	}, 78)
	if err != nil {
		panic(err)
	}
	return c
}
