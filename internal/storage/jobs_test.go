package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareTSQuery(t *testing.T) {
	assert.Equal(t, "senior:* & go:* & k8s:*", prepareTSQuery("Senior Go, k8s!"))
	assert.Equal(t, "développeur:*", prepareTSQuery("C++ développeur"))
	assert.Equal(t, "drop:* & table:* & jobs:*", prepareTSQuery("'); DROP TABLE jobs:* & !"))
	assert.Equal(t, "", prepareTSQuery("  a ! ? "))
	assert.Equal(t, "", prepareTSQuery(""))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
	assert.Equal(t, "Remote", escapeLike("Remote"))
}
