package memory_test

import (
	"testing"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/adapters/memory"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryRecordStore_Contract(t *testing.T) {
	ports.RunRecordStoreContract(t, memory.NewRecordStore())
}
