package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// CasbinService owns the enforcer behind the resource registry. Policies are
// persisted in the casbin_rule table through the GORM adapter.
type CasbinService struct{ E *casbin.SyncedEnforcer }

// NewCasbinService loads the model from modelPath, or from modelText when no
// path is configured, and loads the stored policies.
func NewCasbinService(db *gorm.DB, modelPath, modelText string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	var m model.Model
	if modelPath != "" {
		m, err = model.NewModelFromFile(modelPath)
	} else {
		m, err = model.NewModelFromString(modelText)
	}
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}
