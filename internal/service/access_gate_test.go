package service

import (
	"testing"
	"time"

	"github.com/haierkeys/microdoc-service/internal/domain"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestProperty_AccessGateSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	gate := NewAccessGate(NewBcryptHasher(bcrypt.MinCost), nil)

	secrets := gen.AlphaString().SuchThat(func(s string) bool { return s != "" && len(s) <= 72 })

	properties.Property("the digested secret opens the note and nothing else does", prop.ForAll(
		func(secret, other string) bool {
			digest, err := gate.Digest(secret)
			if err != nil || digest == secret {
				return false
			}
			note := &domain.Note{Slug: "n", CredentialDigest: digest}
			if gate.Authorize(note, Credential{Secret: secret}) != nil {
				return false
			}
			if other == secret {
				return true
			}
			return gate.Authorize(note, Credential{Secret: other}) != nil
		},
		secrets,
		secrets,
	))

	properties.TestingRun(t)
}

func TestAccessGate_Authorize(t *testing.T) {
	now := time.Now()
	tokens := pkgapp.NewTokenManager(pkgapp.TokenConfig{SecretKey: "k", Expiry: time.Hour, Now: func() time.Time { return now }})
	gate := NewAccessGate(NewBcryptHasher(bcrypt.MinCost), tokens)

	digest, err := gate.Digest("pw")
	require.NoError(t, err)
	note := &domain.Note{Slug: "locked", CredentialDigest: digest}

	token, _, err := gate.Issue(note)
	require.NoError(t, err)

	otherToken, _, err := gate.Issue(&domain.Note{Slug: "other", CredentialDigest: digest})
	require.NoError(t, err)

	tests := []struct {
		name string
		note *domain.Note
		cred Credential
		want error
	}{
		{"public note", &domain.Note{Slug: "open"}, Credential{}, nil},
		{"public note ignores credentials", &domain.Note{Slug: "open"}, Credential{Secret: "x", Token: "y"}, nil},
		{"missing", note, Credential{}, code.ErrorNotePasswordRequired},
		{"wrong secret", note, Credential{Secret: "bad"}, code.ErrorNotePasswordInvalid},
		{"secret", note, Credential{Secret: "pw"}, nil},
		{"token", note, Credential{Token: token}, nil},
		{"token for another note", note, Credential{Token: otherToken}, code.ErrorNoteTokenInvalid},
		{"bad token falls back to secret", note, Credential{Token: "junk", Secret: "pw"}, nil},
		{"bad token and bad secret", note, Credential{Token: "junk", Secret: "bad"}, code.ErrorNotePasswordInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(tt.note, tt.cred)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccessGate_IssueWithoutTokens(t *testing.T) {
	gate := NewAccessGate(NewBcryptHasher(bcrypt.MinCost), nil)
	_, _, err := gate.Issue(&domain.Note{Slug: "x", CredentialDigest: "d"})
	assert.ErrorIs(t, err, code.ErrorTokenGenerate)
}

func TestDigestFingerprint(t *testing.T) {
	a := DigestFingerprint("digest-a")
	assert.Len(t, a, 16)
	assert.Equal(t, a, DigestFingerprint("digest-a"))
	assert.NotEqual(t, a, DigestFingerprint("digest-b"))
}

func TestRevisionLog(t *testing.T) {
	var log RevisionLog
	now := time.Now()
	note := &domain.Note{History: []domain.Revision{{Content: "a", Timestamp: now}}}

	assert.False(t, log.ShouldAppend("a", "a"))
	assert.True(t, log.ShouldAppend("a", "a "))

	rev := log.Append(note, "b", now.Add(time.Second))
	assert.Equal(t, "b", rev.Content)
	require.Len(t, note.History, 2)

	list := log.List(note)
	list[0].Content = "mutated"
	assert.Equal(t, "a", note.History[0].Content)

	got, err := log.At(note, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Content)

	for _, i := range []int{-1, 2} {
		_, err := log.At(note, i)
		assert.ErrorIs(t, err, code.ErrorRevisionNotFound)
	}
}

func TestContentPolicy(t *testing.T) {
	policy := NewContentPolicy([]string{" Zorblax "}, nil)

	tests := []struct {
		text string
		want bool
	}{
		{"a perfectly fine note", false},
		{"this is zorblax", true},
		{"ZORBLAX shouting", true},
		{"you are a fucking idiot", true},
		{"what a **bullshit** plan", true},
		{"sh1t happens", true},
		{"dumbass", true},
		{"Notes\nshell script to parse input", false},
		{"Discuss the class hierarchy and assessment", false},
		{"We'll go to the Essex office", false},
		{"this hit the spot, glass half full", false},
		{"# Therapist notes\n\n- analysis of the cocktail menu", false},
		{"Sextant and drapes", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsOffensive(tt.text))
		})
	}

	assert.True(t, NewContentPolicy(nil, nil).IsOffensive("fuck"))
}

func TestContentPolicy_AllowWords(t *testing.T) {
	assert.True(t, NewContentPolicy(nil, nil).IsOffensive("Reading Dick Francis"))
	assert.False(t, NewContentPolicy(nil, []string{" Dick "}).IsOffensive("Reading Dick Francis"))
}
