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
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyClaims are the claims carried by a Supabase API key, which is a JWT
// signed by the Supabase project.
type KeyClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// IntrospectKey parses the claims of a Supabase API key without verifying its
// signature, the signing secret never leaves the Supabase project.
func IntrospectKey(key string) (*KeyClaims, error) {
	claims := &KeyClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(key, claims)
	if err != nil {
		return nil, fmt.Errorf("unable to parse the Supabase API key (%w)", err)
	}
	return claims, nil
}

// Expired checks whether the key carries an expiry claim in the past
func (claims *KeyClaims) Expired() bool {
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
