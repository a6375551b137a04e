package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/handler"
)

func TestValidator_PetType(t *testing.T) {
	handler.InitValidator()
	v := handler.GetValidator()

	type petReq struct {
		PetType string `validate:"required,pet_type"`
	}

	assert.NoError(t, v.ValidateStruct(petReq{PetType: "cat"}))
	assert.NoError(t, v.ValidateStruct(petReq{PetType: "Axolotl"}))
	assert.Error(t, v.ValidateStruct(petReq{PetType: "dragon"}))
	assert.Error(t, v.ValidateStruct(petReq{}))
}

func TestValidator_Rarity(t *testing.T) {
	handler.InitValidator()
	v := handler.GetValidator()

	type catchReq struct {
		Rarity string `validate:"required,rarity"`
	}

	assert.NoError(t, v.ValidateStruct(catchReq{Rarity: "legendary"}))
	assert.Error(t, v.ValidateStruct(catchReq{Rarity: "mythic"}))
}

func TestFormatValidationError(t *testing.T) {
	handler.InitValidator()
	v := handler.GetValidator()

	type req struct {
		UserID  string `validate:"required"`
		PetType string `validate:"required,pet_type"`
	}

	err := v.ValidateStruct(req{PetType: "dragon"})
	require.Error(t, err)

	fields := handler.FormatValidationError(err)
	assert.Equal(t, "This field is required", fields["userid"])
	assert.Equal(t, "Unknown pet type", fields["pettype"])
}
