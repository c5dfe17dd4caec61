package main

import (
	"strconv"
	"strings"

	"github.com/protomem/resource-tracker/internal/model"
	"github.com/protomem/resource-tracker/internal/validator"
)

const (
	_maxExternalIDRunes  = 32
	_maxDisplayNameRunes = 128
	_maxLabelRunes       = 64
)

func validateRequestAddResource(v *validator.Validator, request requestAddResource) {
	v.CheckField(validator.NotBlank(request.Label), "identificador", "is required")
	v.CheckField(validator.MaxRunes(request.Label, _maxLabelRunes), "identificador", tooLong(_maxLabelRunes))

	v.CheckField(validator.NotBlank(request.Category), "tipo", "is required")
	v.CheckField(
		validator.PermittedValue(model.NormalizeCategory(request.Category), model.Categories()...),
		"tipo", "must be one of "+categoryList(),
	)
}

func validateRequestAddUser(v *validator.Validator, request requestAddUser) {
	v.CheckField(validator.NotBlank(request.ExternalID), "matricula", "is required")
	v.CheckField(validator.MaxRunes(request.ExternalID, _maxExternalIDRunes), "matricula", tooLong(_maxExternalIDRunes))

	v.CheckField(validator.NotBlank(request.DisplayName), "nome", "is required")
	v.CheckField(validator.MaxRunes(request.DisplayName, _maxDisplayNameRunes), "nome", tooLong(_maxDisplayNameRunes))
}

// Check-in and check-out only need presence: unknown or overlong values are
// reported as not found by the lookup.

func validateRequestCheckIn(v *validator.Validator, request requestCheckIn) {
	v.CheckField(validator.NotBlank(request.ExternalID), "matricula", "is required")
	v.CheckField(validator.NotBlank(request.ResourceLabel), "identificadorRecurso", "is required")
}

func validateRequestCheckOut(v *validator.Validator, request requestCheckOut) {
	v.CheckField(validator.NotBlank(request.ExternalID), "matricula", "is required")
}

func tooLong(n int) string {
	return "must not be more than " + strconv.Itoa(n) + " characters"
}

func categoryList() string {
	categories := model.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
