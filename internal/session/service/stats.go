package service

import (
	"teamsort/internal/domain"
	"teamsort/internal/session/models"
)

func buildStats(s *models.State) models.DashboardStats {
	distribution := domain.TraitCounts{}
	for _, member := range s.Roster {
		distribution[member.Trait]++
	}

	groups := make([]models.GroupStats, 0, len(s.Partition))
	for _, g := range s.Partition {
		groups = append(groups, models.GroupStats{
			ID:       g.ID,
			Name:     g.Name,
			Size:     len(g.Members),
			TraitMix: g.TraitMix(),
		})
	}

	return models.DashboardStats{
		RosterSize:        len(s.Roster),
		GroupCount:        len(s.Partition),
		Finalized:         s.Finalized,
		CanFinalize:       s.CanFinalize() == nil,
		TraitDistribution: distribution,
		Groups:            groups,
	}
}
