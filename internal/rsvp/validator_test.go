package rsvp

import (
	"strings"
	"testing"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, v *Validator, body string) (*database.NewGuest, *ValidationError) {
	t.Helper()

	guest, err := v.Parse(strings.NewReader(body), i18n.Portuguese)
	if err == nil {
		return guest, nil
	}
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T: %v", err, err)
	return nil, verr
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("a")
	require.NoError(t, err)
	assert.Equal(t, Quantity, v)

	v, err = ParseVariant(" B ")
	require.NoError(t, err)
	assert.Equal(t, Companion, v)

	_, err = ParseVariant("C")
	assert.Error(t, err)
}

func TestQuantity_ValidSubmission(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	guest, verr := parse(t, v, `{"name":"Ana Silva","status":"YES","additionalQty":2,"message":""}`)
	require.Nil(t, verr)

	assert.Equal(t, "Ana Silva", guest.Name)
	assert.Equal(t, database.StatusYes, guest.Status)
	assert.Equal(t, 2, guest.AdditionalQty)
	assert.Nil(t, guest.Message)
	assert.Nil(t, guest.Phone)
	assert.Nil(t, guest.CompanionName)
}

func TestQuantity_TrimsAndNormalizes(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	guest, verr := parse(t, v, `{"name":"  Jim Hopper  ","phone":" (11) 98765-4321 ","status":"MAYBE","additionalQty":"3","message":"  Levo o refrigerante!  "}`)
	require.Nil(t, verr)

	assert.Equal(t, "Jim Hopper", guest.Name)
	require.NotNil(t, guest.Phone)
	assert.Equal(t, "+5511987654321", *guest.Phone)
	assert.Equal(t, database.StatusMaybe, guest.Status)
	assert.Equal(t, 3, guest.AdditionalQty)
	require.NotNil(t, guest.Message)
	assert.Equal(t, "Levo o refrigerante!", *guest.Message)
}

func TestQuantity_KeepsUnparseablePhone(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	guest, verr := parse(t, v, `{"name":"Joyce","phone":"ramal 12","status":"YES","additionalQty":0}`)
	require.Nil(t, verr)
	require.NotNil(t, guest.Phone)
	assert.Equal(t, "ramal 12", *guest.Phone)
}

func TestQuantity_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{name: "name too short", body: `{"name":"A","status":"YES","additionalQty":0}`, field: "name", message: "Nome muito curto"},
		{name: "name too short after trim", body: `{"name":"  B  ","status":"YES","additionalQty":0}`, field: "name", message: "Nome muito curto"},
		{name: "name missing", body: `{"status":"YES","additionalQty":0}`, field: "name", message: "Informe seu nome"},
		{name: "name too long", body: `{"name":"` + strings.Repeat("x", 81) + `","status":"YES","additionalQty":0}`, field: "name", message: "Nome muito longo"},
		{name: "name wrong type", body: `{"name":42,"status":"YES","additionalQty":0}`, field: "name", message: "Informe seu nome"},
		{name: "phone too long", body: `{"name":"Ana","phone":"` + strings.Repeat("1", 31) + `","status":"YES","additionalQty":0}`, field: "phone", message: "Telefone muito longo"},
		{name: "unknown status", body: `{"name":"Ana","status":"PERHAPS","additionalQty":0}`, field: "status", message: "Presença inválida"},
		{name: "status missing", body: `{"name":"Ana","additionalQty":0}`, field: "status", message: "Presença inválida"},
		{name: "quantity missing", body: `{"name":"Ana","status":"YES"}`, field: "additionalQty", message: "Quantidade de acompanhantes inválida"},
		{name: "quantity above bound", body: `{"name":"Ana","status":"YES","additionalQty":11}`, field: "additionalQty", message: "Quantidade de acompanhantes inválida"},
		{name: "quantity negative", body: `{"name":"Ana","status":"YES","additionalQty":-1}`, field: "additionalQty", message: "Quantidade de acompanhantes inválida"},
		{name: "quantity fractional", body: `{"name":"Ana","status":"YES","additionalQty":1.5}`, field: "additionalQty", message: "Quantidade de acompanhantes inválida"},
		{name: "quantity non numeric string", body: `{"name":"Ana","status":"YES","additionalQty":"two"}`, field: "additionalQty", message: "Quantidade de acompanhantes inválida"},
		{name: "message too long", body: `{"name":"Ana","status":"YES","additionalQty":0,"message":"` + strings.Repeat("m", 281) + `"}`, field: "message", message: "Mensagem muito longa"},
	}

	v := NewValidator(Quantity, "BR")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest, verr := parse(t, v, tt.body)
			require.NotNil(t, verr)
			assert.Nil(t, guest)
			assert.Equal(t, []string{tt.message}, verr.Issues.FieldErrors[tt.field])
		})
	}
}

func TestQuantity_BlankQuantityStringIsZero(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	guest, verr := parse(t, v, `{"name":"Nancy","status":"NO","additionalQty":" "}`)
	require.Nil(t, verr)
	assert.Equal(t, 0, guest.AdditionalQty)
}

func TestQuantity_NameRuneLength(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	// 80 multi-byte runes is still within bounds.
	guest, verr := parse(t, v, `{"name":"`+strings.Repeat("ã", 80)+`","status":"YES","additionalQty":0}`)
	require.Nil(t, verr)
	assert.Equal(t, 80, len([]rune(guest.Name)))
}

func TestQuantity_ReportsEveryField(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	_, verr := parse(t, v, `{"name":"A","status":"X","additionalQty":99}`)
	require.NotNil(t, verr)
	assert.Len(t, verr.Issues.FieldErrors, 3)
	assert.Empty(t, verr.Issues.FormErrors)
}

func TestParse_InvalidBody(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	for _, body := range []string{``, `not json`, `[1,2]`, `null`} {
		_, verr := parse(t, v, body)
		require.NotNil(t, verr, "body %q", body)
		assert.Equal(t, []string{"Corpo da requisição inválido"}, verr.Issues.FormErrors)
	}
}

func TestParse_EnglishMessages(t *testing.T) {
	v := NewValidator(Quantity, "BR")

	_, err := v.Parse(strings.NewReader(`{"name":"A","status":"YES","additionalQty":0}`), i18n.English)
	require.Error(t, err)
	verr := err.(*ValidationError)
	assert.Equal(t, []string{"Name is too short"}, verr.Issues.FieldErrors["name"])
	assert.Contains(t, verr.Error(), "name: Name is too short")
}

func TestCompanion_WithCompanion(t *testing.T) {
	v := NewValidator(Companion, "BR")

	guest, verr := parse(t, v, `{"name":"Steve Harrington","status":"YES","bringCompanion":"true","companionName":" Robin Buckley ","message":"Ahoy"}`)
	require.Nil(t, verr)

	assert.Equal(t, 1, guest.AdditionalQty)
	require.NotNil(t, guest.CompanionName)
	assert.Equal(t, "Robin Buckley", *guest.CompanionName)
	assert.Nil(t, guest.Phone)
	require.NotNil(t, guest.Message)
	assert.Equal(t, "Ahoy", *guest.Message)
}

func TestCompanion_WithoutCompanionDropsName(t *testing.T) {
	v := NewValidator(Companion, "BR")

	guest, verr := parse(t, v, `{"name":"Murray","status":"NO","bringCompanion":false,"companionName":"Alexei","phone":"+5511987654321"}`)
	require.Nil(t, verr)

	assert.Equal(t, 0, guest.AdditionalQty)
	assert.Nil(t, guest.CompanionName)
	assert.Nil(t, guest.Phone, "variant B never stores a phone")
}

func TestCompanion_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{name: "companion name required", body: `{"name":"Steve","status":"YES","bringCompanion":true}`, field: "companionName", message: "Informe o nome do acompanhante"},
		{name: "companion name too short", body: `{"name":"Steve","status":"YES","bringCompanion":true,"companionName":"R"}`, field: "companionName", message: "Informe o nome do acompanhante"},
		{name: "companion name too long", body: `{"name":"Steve","status":"YES","bringCompanion":true,"companionName":"` + strings.Repeat("r", 81) + `"}`, field: "companionName", message: "Nome do acompanhante muito longo"},
		{name: "maybe not offered", body: `{"name":"Steve","status":"MAYBE"}`, field: "status", message: "Presença inválida"},
		{name: "bad toggle", body: `{"name":"Steve","status":"YES","bringCompanion":"sometimes"}`, field: "bringCompanion", message: "Valor inválido"},
		{name: "name too short", body: `{"name":"S","status":"YES"}`, field: "name", message: "Nome muito curto"},
	}

	v := NewValidator(Companion, "BR")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := parse(t, v, tt.body)
			require.NotNil(t, verr)
			assert.Equal(t, []string{tt.message}, verr.Issues.FieldErrors[tt.field])
		})
	}
}

func TestVariantStatuses(t *testing.T) {
	assert.Equal(t, []string{"YES", "MAYBE", "NO"}, Quantity.Statuses())
	assert.Equal(t, []string{"YES", "NO"}, Companion.Statuses())
}
