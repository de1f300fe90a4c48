package txflash

import "testing"

func Benchmark_Write(b *testing.B) {
	bank0, bank1 := mem(4096, 0x00), mem(4096, 0x00)
	e, err := New[uint16](bank0, bank1, nil)
	if err != nil {
		b.Fatal(err)
	}

	payload := make([]byte, 64)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if !e.Write(payload) {
			b.Fatal("write rejected")
		}
	}
}

func Benchmark_Read(b *testing.B) {
	bank0, bank1 := mem(4096, 0x00), mem(4096, 0x00)
	payload := make([]byte, 64)
	e, err := New[uint16](bank0, bank1, payload)
	if err != nil {
		b.Fatal(err)
	}

	dst := make([]byte, len(payload))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := e.Read(dst); err != nil {
			b.Fatal(err)
		}
	}
}
