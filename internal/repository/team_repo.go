package repository

import (
	"dollarpay/internal/models"

	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// AncestorsOf returns the ancestor edges of the given user ordered by
// level ascending, at most maxDepth levels.
func (r *TeamRepository) AncestorsOf(userID uint, maxDepth int) ([]models.TeamMember, error) {
	var edges []models.TeamMember
	err := r.db.Where("child_user_id = ? AND level <= ?", userID, maxDepth).
		Order("level ASC").
		Find(&edges).Error
	return edges, err
}

// ListByParent returns the team members under the given user, direct and
// indirect, with the member user preloaded.
func (r *TeamRepository) ListByParent(parentID uint, limit, offset int) ([]models.TeamMember, error) {
	var list []models.TeamMember
	err := r.db.Where("parent_user_id = ?", parentID).
		Preload("Child").
		Order("level ASC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TeamRepository) CountByParent(parentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).Where("parent_user_id = ?", parentID).Count(&count).Error
	return count, err
}

func (r *TeamRepository) CountDirectByParent(parentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("parent_user_id = ? AND level = 1", parentID).Count(&count).Error
	return count, err
}
