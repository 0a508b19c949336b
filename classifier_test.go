package spamguard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"syreclabs.com/go/faker"
)

// distinctAddresses returns n unique nine-digit addresses at example.com,
// skipping anything in exclude.
func distinctAddresses(n int, exclude ...map[string]struct{}) []string {
	seen := make(map[string]struct{}, n)
	addresses := make([]string, 0, n)
	for len(addresses) < n {
		a := fmt.Sprintf("%s@example.com", faker.Number().Number(9))
		if _, dup := seen[a]; dup {
			continue
		}
		skip := false
		for _, ex := range exclude {
			if _, ok := ex[a]; ok {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		seen[a] = struct{}{}
		addresses = append(addresses, a)
	}
	return addresses
}

func asSet(addresses []string) map[string]struct{} {
	set := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		set[a] = struct{}{}
	}
	return set
}

// ContractSuite holds the behaviour every classifier shares.
type ContractSuite struct {
	suite.Suite
	newClassifier func(params Params) (Classifier, error)
	classifier    Classifier
}

func (st *ContractSuite) SetupTest() {
	var err error
	st.classifier, err = st.newClassifier(DefaultParams())
	st.Require().NoError(err, "No error expected on classifier creation")
}

func (st *ContractSuite) TestUnknownAddressOnEmptyClassifier() {
	for _, a := range distinctAddresses(100) {
		st.Require().False(st.classifier.IsSpam(a), "empty classifier must not flag %q", a)
	}
}

func (st *ContractSuite) TestNoFalseNegatives() {
	spam := distinctAddresses(DefaultCapacity)
	st.Run("fill classifier", func() {
		for _, a := range spam {
			st.Require().NoError(st.classifier.AddSpam(a), "No error expected on adding %q", a)
		}
	})
	st.Run("check spam", func() {
		for _, a := range spam {
			st.Require().Truef(st.classifier.IsSpam(a), "address %q expected to be spam", a)
		}
	})
}

func (st *ContractSuite) TestReAddIsNoOp() {
	a := faker.Internet().Email()
	st.Require().NoError(st.classifier.AddSpam(a))
	st.Require().NoError(st.classifier.AddSpam(a), "re-adding a known address must succeed")
	st.Require().Equal(1, st.classifier.(interface{ Len() int }).Len())
	st.Require().True(st.classifier.IsSpam(a))
}

func (st *ContractSuite) TestInvalidParams() {
	_, err := st.newClassifier(Params{})
	st.Require().Error(err, "zero params must be rejected")
}

func TestContractSuite(t *testing.T) {
	for name, factory := range map[string]func(Params) (Classifier, error){
		"bounded":  func(p Params) (Classifier, error) { return NewBoundedFilter(p) },
		"gated":    func(p Params) (Classifier, error) { return NewGatedList(p) },
		"evicting": func(p Params) (Classifier, error) { return NewEvictingFilter(p) },
	} {
		factory := factory
		t.Run(name, func(t *testing.T) {
			suite.Run(t, &ContractSuite{newClassifier: factory})
		})
	}
}
