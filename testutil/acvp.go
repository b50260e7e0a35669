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

package testutil

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// ACVPDirEnv names the environment variable pointing at a checkout of the
// NIST ACVP-Server gen-val/json-files directory. When unset, vectors are
// looked up in the testdata directory of the calling package.
const ACVPDirEnv = "SLHDSA_ACVP_DIR"

// ACVPSuite represents the common elements of the top level object of an
// ACVP internalProjection.json file. Implementations should embed ACVPSuite
// in a struct that strongly types the testGroups field.
type ACVPSuite struct {
	VsID      int    `json:"vsId"`
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`
	Revision  string `json:"revision"`
	IsSample  bool   `json:"isSample"`
}

// ACVPGroup represents the common elements of a testGroups object.
type ACVPGroup struct {
	GroupID      int    `json:"tgId"`
	TestType     string `json:"testType"`
	ParameterSet string `json:"parameterSet"`
}

// SLHDSAKeyGenCase is a single SLH-DSA keyGen test case.
type SLHDSAKeyGenCase struct {
	CaseID int      `json:"tcId"`
	SKSeed HexBytes `json:"skSeed"`
	SKPrf  HexBytes `json:"skPrf"`
	PKSeed HexBytes `json:"pkSeed"`
	SK     HexBytes `json:"sk"`
	PK     HexBytes `json:"pk"`
}

// SLHDSAKeyGenSuite is the SLH-DSA-keyGen-FIPS205 vector set.
type SLHDSAKeyGenSuite struct {
	ACVPSuite
	TestGroups []struct {
		ACVPGroup
		Tests []*SLHDSAKeyGenCase `json:"tests"`
	} `json:"testGroups"`
}

// SLHDSASigCase is a single SLH-DSA sigGen or sigVer test case. TestPassed is
// only set for sigVer.
type SLHDSASigCase struct {
	CaseID               int      `json:"tcId"`
	SK                   HexBytes `json:"sk"`
	PK                   HexBytes `json:"pk"`
	AdditionalRandomness HexBytes `json:"additionalRandomness"`
	Message              HexBytes `json:"message"`
	Context              HexBytes `json:"context"`
	HashAlg              string   `json:"hashAlg"`
	Signature            HexBytes `json:"signature"`
	TestPassed           *bool    `json:"testPassed"`
	Reason               string   `json:"reason"`
}

// SLHDSASigGroup is a group of sigGen or sigVer cases sharing a parameter set
// and interface.
type SLHDSASigGroup struct {
	ACVPGroup
	Deterministic      bool             `json:"deterministic"`
	SignatureInterface string           `json:"signatureInterface"`
	PreHash            string           `json:"preHash"`
	Tests              []*SLHDSASigCase `json:"tests"`
}

// SLHDSASigSuite is the SLH-DSA-sigGen-FIPS205 or SLH-DSA-sigVer-FIPS205
// vector set.
type SLHDSASigSuite struct {
	ACVPSuite
	TestGroups []*SLHDSASigGroup `json:"testGroups"`
}

// PopulateSuite opens path and populates suite with the decoded JSON data.
func PopulateSuite(suite any, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(suite)
}

// PopulateACVPSuite loads the internalProjection.json file of the given ACVP
// vector set, e.g. "SLH-DSA-sigGen-FIPS205", into suite. The test is skipped
// when the vectors are not available.
func PopulateACVPSuite(t *testing.T, suite any, vectorSet string) {
	t.Helper()
	dir := os.Getenv(ACVPDirEnv)
	if dir == "" {
		dir = "testdata"
	}
	path := filepath.Join(dir, vectorSet, "internalProjection.json")
	err := PopulateSuite(suite, path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Skipf("ACVP vectors %s not available, set %s", path, ACVPDirEnv)
	}
	if err != nil {
		t.Fatalf("PopulateSuite(%s) err = %v, want nil", path, err)
	}
}
