package service

import (
	"fmt"

	"neon_quizlet/internal/model"
)

// PlanService は料金プランと、プランによる機能制限です
type PlanService interface {
	Plans() []model.PricingPlan
	RequirePremium(user *model.User) error
	CheckModuleLimit(user *model.User, existing int) error
}

type planService struct {
	freeModuleLimit int
}

func NewPlanService(freeModuleLimit int) PlanService {
	return &planService{freeModuleLimit: freeModuleLimit}
}

func (s *planService) Plans() []model.PricingPlan {
	return []model.PricingPlan{
		{
			ID:    "free",
			Name:  "Free",
			Price: 0,
			Features: []string{
				fmt.Sprintf("Up to %d study modules", s.freeModuleLimit),
				"Basic study modes",
				"Standard statistics",
				"Single device",
			},
		},
		{
			ID:        "premium",
			Name:      "Premium",
			Price:     299,
			Duration:  1,
			IsPopular: true,
			Features: []string{
				"Unlimited modules",
				"All study modes",
				"Extended statistics",
				"Module export and import",
				"Sync across devices",
				"Priority support",
				"No ads",
			},
		},
	}
}

// RequirePremium はプレミアム限定機能の前に呼びます
func (s *planService) RequirePremium(user *model.User) error {
	if user == nil || !user.IsPremium {
		return model.NewAppError("PREMIUM_REQUIRED", "This feature requires a Premium plan.", "", model.ErrPremiumRequired)
	}
	return nil
}

// CheckModuleLimit は無料プランでモジュールを増やせるかを確かめます。
// ログインしていない場合は制限しません
func (s *planService) CheckModuleLimit(user *model.User, existing int) error {
	if user == nil || user.IsPremium {
		return nil
	}
	if existing >= s.freeModuleLimit {
		msg := fmt.Sprintf("The free plan allows up to %d modules. Upgrade to Premium for more.", s.freeModuleLimit)
		return model.NewAppError("MODULE_LIMIT", msg, "", model.ErrModuleLimit)
	}
	return nil
}
