package services

import (
	"recipe-catalog-backend/apperr"
	"recipe-catalog-backend/models"
)

// Operation names every gated action. The policy table below is the single
// place mapping operations to allowed roles.
type Operation string

const (
	OpRecipeCreate Operation = "recipe.create"
	OpRecipeMutate Operation = "recipe.mutate"
	OpInteract     Operation = "interact"
	OpModerate     Operation = "moderate"
	OpMetaManage   Operation = "meta.manage"
	OpUserAdmin    Operation = "user.admin"
)

var policy = map[Operation][]models.Role{
	OpRecipeCreate: {models.RoleAdministrator, models.RoleManager, models.RoleCreator},
	OpRecipeMutate: {models.RoleAdministrator, models.RoleManager, models.RoleCreator},
	OpInteract:     {models.RoleAdministrator, models.RoleManager, models.RoleCreator, models.RoleExplorer},
	OpModerate:     {models.RoleAdministrator, models.RoleManager},
	OpMetaManage:   {models.RoleAdministrator, models.RoleManager},
	OpUserAdmin:    {models.RoleAdministrator},
}

// AccessGate performs the role check consumed by every mutating operation.
type AccessGate struct{}

func NewAccessGate() *AccessGate {
	return &AccessGate{}
}

// Require denies when there is no actor or the actor's roles are disjoint
// from the operation's allowed roles.
func (g *AccessGate) Require(actor *models.Actor, op Operation) error {
	allowed, ok := policy[op]
	if !ok {
		return apperr.Forbidden("You do not have permission to do this")
	}
	if actor == nil || !actor.HasRole(allowed...) {
		return apperr.Forbidden("You do not have permission to do this")
	}
	return nil
}

// RequireOwnerOrElevated passes when the actor owns the entity or holds the
// Manager or Administrator role. This is the uniform ownership policy for
// mutating recipes, comments and ratings.
func (g *AccessGate) RequireOwnerOrElevated(actor *models.Actor, ownerID uint) error {
	if actor == nil {
		return apperr.Forbidden("You do not have permission to do this")
	}
	if actor.ID == ownerID {
		return nil
	}
	if actor.HasRole(models.RoleAdministrator, models.RoleManager) {
		return nil
	}
	return apperr.Forbidden("You do not have permission to do this")
}
