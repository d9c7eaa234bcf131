package service

import (
	"dollarpay/internal/models"
	"dollarpay/internal/repository"

	"gorm.io/gorm"
)

// TeamService builds and reads the referral tree.
type TeamService struct {
	teamRepo *repository.TeamRepository
}

func NewTeamService(teamRepo *repository.TeamRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

// BuildAncestry inserts the ancestor edges for a newly registered child:
// one direct edge (referrer, child, 1) plus one inherited edge
// (ancestor, child, k+1) for every existing edge (ancestor, referrer, k)
// below maxDepth. Must run inside the same transaction as the user insert
// so a crash cannot leave a user with a partial ancestor chain.
func (s *TeamService) BuildAncestry(tx *gorm.DB, referrerID, childID uint, maxDepth int) ([]models.TeamMember, error) {
	edges := []models.TeamMember{{ParentUserID: referrerID, ChildUserID: childID, Level: 1}}

	var parents []models.TeamMember
	if err := tx.Where("child_user_id = ? AND level < ?", referrerID, maxDepth).
		Order("level ASC").
		Find(&parents).Error; err != nil {
		return nil, err
	}
	for _, p := range parents {
		edges = append(edges, models.TeamMember{
			ParentUserID: p.ParentUserID,
			ChildUserID:  childID,
			Level:        p.Level + 1,
		})
	}
	if err := tx.Create(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

type TeamStats struct {
	TotalMembers    int64 `json:"total_members"`
	DirectMembers   int64 `json:"direct_members"`
	IndirectMembers int64 `json:"indirect_members"`
}

func (s *TeamService) Stats(userID uint) (*TeamStats, error) {
	total, err := s.teamRepo.CountByParent(userID)
	if err != nil {
		return nil, err
	}
	direct, err := s.teamRepo.CountDirectByParent(userID)
	if err != nil {
		return nil, err
	}
	return &TeamStats{
		TotalMembers:    total,
		DirectMembers:   direct,
		IndirectMembers: total - direct,
	}, nil
}

func (s *TeamService) Members(userID uint, limit, offset int) ([]models.TeamMember, error) {
	return s.teamRepo.ListByParent(userID, limit, offset)
}
