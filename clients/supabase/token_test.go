// Copyright 2025 The TGV Tracker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesterday() time.Time {
	return time.Now().Add(-24 * time.Hour)
}

func TestIntrospectKey(t *testing.T) {
	key := makeTestKey(t, KeyClaims{Role: "service_role", Ref: "test-project"})

	claims, err := IntrospectKey(key)
	require.NoError(t, err)
	assert.Equal(t, "service_role", claims.Role)
	assert.Equal(t, "test-project", claims.Ref)
	assert.False(t, claims.Expired())
}

func TestIntrospectKeyMalformed(t *testing.T) {
	_, err := IntrospectKey("not-a-jwt")
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	expiredKey := makeTestKey(t, KeyClaims{
		Role: "anon",
		Ref:  "test-project",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(yesterday()),
		},
	})
	claims, err := IntrospectKey(expiredKey)
	require.NoError(t, err)
	assert.True(t, claims.Expired())

	validKey := makeTestKey(t, KeyClaims{
		Role: "anon",
		Ref:  "test-project",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	})
	claims, err = IntrospectKey(validKey)
	require.NoError(t, err)
	assert.False(t, claims.Expired())
}
