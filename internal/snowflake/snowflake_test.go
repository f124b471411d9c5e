package snowflake

import "testing"

func TestSetupSnowflake(t *testing.T) {
	err := Setup(0)
	if err != nil {
		t.Error(err)
	}
}

func TestSetupSnowflakeSameIDTwice(t *testing.T) {
	if err := Setup(0); err != nil {
		t.Error(err)
	}
	if err := Setup(0); err != nil {
		t.Error(err)
	}
}

func TestGenerateSnowflake(t *testing.T) {
	_, err := Generate()
	if err != nil {
		t.Error(err)
	}
}

func TestGenerateSnowflakeUnique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id, err := Generate()
		if err != nil {
			// increment overflow within one millisecond is the documented limit
			return
		}
		if seen[id] {
			t.Errorf("duplicate snowflake %d", id)
		}
		seen[id] = true
	}
}
