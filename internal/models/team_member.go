package models

import "time"

// TeamMember is one ancestor edge in the referral tree: parent is an
// ancestor of child at distance level. Edges are written once at
// registration and never updated or deleted.
type TeamMember struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ParentUserID uint      `gorm:"not null;uniqueIndex:idx_team_parent_child;index" json:"parent_user_id"`
	ChildUserID  uint      `gorm:"not null;uniqueIndex:idx_team_parent_child;index" json:"child_user_id"`
	Level        int       `gorm:"not null;default:1" json:"level"`
	CreatedAt    time.Time `json:"created_at"`

	Parent User `gorm:"foreignKey:ParentUserID" json:"-"`
	Child  User `gorm:"foreignKey:ChildUserID" json:"-"`
}

func (TeamMember) TableName() string { return "team_members" }
