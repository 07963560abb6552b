package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusStillOpen = "still-open"
	ProjectStatusClosed    = "closed"
)

/*

Project is a source record the feed derives items from. Projects are owned by
the backend of record; the aggregation client only ever reads them through the
project read API as a backstop for items the remote feed has not yet
materialized.

StartDate/Deadline/ClosedDate: date strings as entered ("2026-01-15"); the
	feed parses them permissively when deriving items.
Team: JSON array of {id, name, role, avatar} objects.

*/
type Project struct {
	Id             string             `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time          `json:"createdAt"`
	DeletedAt      gorm.DeletedAt     `json:"-"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         string             `json:"status"`
	StartDate      string             `json:"startDate,omitempty"`
	Deadline       string             `json:"deadline,omitempty"`
	ClosedDate     string             `json:"closedDate,omitempty"`
	Category       string             `json:"category"`
	AspiraCategory string             `json:"aspiraCategory,omitempty"`
	Tags           datatypes.JSON     `json:"tags,omitempty"`
	Team           datatypes.JSON     `json:"team,omitempty"`
	University     string             `json:"university,omitempty"`
	Location       string             `json:"location,omitempty"`
	IsPublic       bool               `json:"isPublic"`
	AuthorId       string             `json:"authorId"`
	AuthorName     string             `json:"authorName"`
}

// ProjectMember records a user having joined a project through the join API.
// The pair is unique; re-joining is a no-op at the storage layer.
type ProjectMember struct {
	ProjectId string    `gorm:"primaryKey" json:"projectId"`
	UserId    string    `gorm:"primaryKey" json:"userId"`
	CreatedAt time.Time `json:"joinedAt"`
}

// TeamMember is one entry of a project's Team JSON array.
type TeamMember struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
