// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lowerHex = regexp.MustCompile(`^[0-9a-f]+$`)

func TestGenerateID(t *testing.T) {
	for _, n := range []int{8, 16, 24} {
		id, err := GenerateID(n)
		require.NoError(t, err)
		assert.Len(t, id, 2*n)
		assert.Regexp(t, lowerHex, id)
	}

	a, _ := GenerateID(16)
	b, _ := GenerateID(16)
	assert.NotEqual(t, a, b)
}

func TestGenerateAdminKey(t *testing.T) {
	key := GenerateAdminKey(ScopeSurvey, "s-1", "salt")

	assert.NotEmpty(t, key)
	assert.NotContains(t, key, "=")
	assert.Equal(t, key, GenerateAdminKey(ScopeSurvey, "s-1", "salt"), "keys are reproducible")

	others := map[string]string{
		"other id":    GenerateAdminKey(ScopeSurvey, "s-2", "salt"),
		"other salt":  GenerateAdminKey(ScopeSurvey, "s-1", "pepper"),
		"other scope": GenerateAdminKey(ScopeQuestionnaire, "s-1", "salt"),
	}
	for name, other := range others {
		assert.NotEqual(t, key, other, name)
	}
}

func TestGenerateAdminKey_ScopeIsNotConcatenated(t *testing.T) {
	// "survey"+"x" and "surveyx"+"" must not collide.
	a := GenerateAdminKey(Scope("survey"), "x", "salt")
	b := GenerateAdminKey(Scope("surveyx"), "", "salt")
	assert.NotEqual(t, a, b)
}

func TestValidateAdminKey(t *testing.T) {
	const id, salt = "survey-42", "salt"
	key := GenerateAdminKey(ScopeSurvey, id, salt)

	require.NoError(t, ValidateAdminKey(ScopeSurvey, id, key, salt))

	rejected := []struct {
		name          string
		scope         Scope
		id, key, salt string
	}{
		{"garbage key", ScopeSurvey, id, "not-a-key", salt},
		{"empty key", ScopeSurvey, id, "", salt},
		{"other survey", ScopeSurvey, "survey-43", key, salt},
		{"questionnaire scope", ScopeQuestionnaire, id, key, salt},
		{"rotated salt", ScopeSurvey, id, key, "new-salt"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.scope, tt.id, tt.key, tt.salt)
			assert.ErrorIs(t, err, ErrInvalidAdminKey)
		})
	}
}

func TestAnonymousRespondentID(t *testing.T) {
	seen := map[string]struct{}{}
	for range 50 {
		id := AnonymousRespondentID()

		suffix, ok := strings.CutPrefix(id, AnonymousPrefix)
		require.True(t, ok, "missing prefix in %q", id)
		_, err := uuid.Parse(suffix)
		require.NoError(t, err)

		assert.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}

func TestHashIP(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "203.0.113.7", "2001:db8::8a2e:370:7334"} {
		h := HashIP(ip, "ip-salt")
		assert.Len(t, h, 16)
		assert.Regexp(t, lowerHex, h)
		assert.Equal(t, h, HashIP(ip, "ip-salt"))
		assert.NotContains(t, h, ip)
	}

	assert.NotEqual(t, HashIP("10.0.0.1", "s"), HashIP("10.0.0.2", "s"))
	assert.NotEqual(t, HashIP("10.0.0.1", "s1"), HashIP("10.0.0.1", "s2"))
}

func BenchmarkValidateAdminKey(b *testing.B) {
	key := GenerateAdminKey(ScopeSurvey, "survey-42", "salt")
	for b.Loop() {
		_ = ValidateAdminKey(ScopeSurvey, "survey-42", key, "salt")
	}
}
