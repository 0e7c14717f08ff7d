package epidemic_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEpidemic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Epidemic Suite")
}
