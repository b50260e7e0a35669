// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package insecuresecretdataaccess defines the token that gates access to
// secret key material.
package insecuresecretdataaccess

// Token must be passed to every API that hands out secret bytes, such as the
// SLH-DSA seeds held by a private key.
//
// Call sites holding a Token are easy to find and audit; build rules may
// restrict which packages can import this one.
type Token struct{}
