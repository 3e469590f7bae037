package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := SubscribeRequest{
		Merchant:     "  shop  ",
		Currency:     " USDC ",
		PlanID:       " pro",
		SessionToken: "tok-1  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "shop", req.Merchant)
	assert.Equal(t, "USDC", req.Currency)
	assert.Equal(t, "pro", req.PlanID)
	assert.Equal(t, "tok-1", req.SessionToken)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterPlanRequest{
		Currency: "USDC",
		PlanID:   "pro",
		PlanName: "Pro <script>alert('x')</script>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.PlanName, "&lt;script&gt;")
	assert.NotContains(t, req.PlanName, "<script>")
}

func TestSanitizeStruct_TrimOnlyKeepsURLQuery(t *testing.T) {
	req := WebhookEndpointRequest{URL: " https://shop.example/hook?a=1&b=2 "}
	SanitizeStruct(&req)

	assert.Equal(t, "https://shop.example/hook?a=1&b=2", req.URL)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	name := "  padded  "
	req := struct {
		Name *string
		Nil  *string
	}{Name: &name}
	SanitizeStruct(&req)

	assert.Equal(t, "padded", *req.Name)
	assert.Nil(t, req.Nil)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"shop-001",
		"ALICE_02",
		"a.b.c",
		"ops@treasury",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"shop 001",  // space
		"shop<001>", // angle brackets
		"shop;DROP", // semicolon
		"",          // empty
		"a:b",       // key separator
		"shop\n001", // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestBindingValidators(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"subscribe ok", &SubscribeRequest{Merchant: "shop", Currency: "USDC", PlanID: "pro"}, false},
		{"subscribe bad merchant", &SubscribeRequest{Merchant: "sh op", Currency: "USDC", PlanID: "pro"}, true},
		{"subscribe bad currency", &SubscribeRequest{Merchant: "shop", Currency: "US:DC", PlanID: "pro"}, true},
		{"wallet ok", &CreateWalletRequest{Currency: "USDC"}, false},
		{"wallet missing currency", &CreateWalletRequest{}, true},
		{"protocol ok", &InitializeProtocolRequest{Treasury: "treasury", FeeBps: 250}, false},
		{"protocol missing treasury", &InitializeProtocolRequest{FeeBps: 250}, true},
		{"emergency missing flag", &EmergencyModeRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
