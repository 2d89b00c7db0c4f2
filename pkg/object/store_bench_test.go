package object

import (
	"crypto/rand"
	"testing"
)

// BenchmarkStoreWriteSmall benchmarks writing a 100-byte blob to the store.
func BenchmarkStoreWriteSmall(b *testing.B) {
	dir := b.TempDir()
	s := NewFSStore(dir)

	// Generate distinct 100-byte payloads so each write is unique
	// (avoids the Has() fast path after the first write).
	payloads := make([][]byte, b.N)
	for i := range payloads {
		buf := make([]byte, 100)
		if _, err := rand.Read(buf); err != nil {
			b.Fatalf("rand.Read: %v", err)
		}
		payloads[i] = buf
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Write(TypeBlob, payloads[i]); err != nil {
			b.Fatalf("Write: %v", err)
		}
	}
}

// BenchmarkStoreWriteLarge benchmarks writing a 100KB blob to the store.
func BenchmarkStoreWriteLarge(b *testing.B) {
	dir := b.TempDir()
	s := NewFSStore(dir)

	payloads := make([][]byte, b.N)
	for i := range payloads {
		buf := make([]byte, 100*1024)
		if _, err := rand.Read(buf); err != nil {
			b.Fatalf("rand.Read: %v", err)
		}
		payloads[i] = buf
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Write(TypeBlob, payloads[i]); err != nil {
			b.Fatalf("Write: %v", err)
		}
	}
}

// BenchmarkStoreRead benchmarks reading back a previously written blob.
func BenchmarkStoreRead(b *testing.B) {
	dir := b.TempDir()
	s := NewFSStore(dir)

	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		b.Fatalf("rand.Read: %v", err)
	}
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		b.Fatalf("Write: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := s.Read(h)
		if err != nil {
			b.Fatalf("Read: %v", err)
		}
	}
}

// BenchmarkStoreWriteBestCompression measures the cost of level 9 on a
// compressible 64KB payload.
func BenchmarkStoreWriteBestCompression(b *testing.B) {
	dir := b.TempDir()
	s := NewFSStore(dir, WithCompressionLevel(9))

	base := make([]byte, 64*1024)
	for i := range base {
		base[i] = byte('a' + i%7)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := append([]byte{byte(i), byte(i >> 8), byte(i >> 16)}, base...)
		if _, err := s.Write(TypeBlob, payload); err != nil {
			b.Fatalf("Write: %v", err)
		}
	}
}
