package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("programas:1"); ok {
		t.Fatal("clave inexistente no debe responder")
	}
	c.Set("programas:1", "Salud Oral")
	v, ok := c.Get("programas:1")
	if !ok || v != "Salud Oral" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	c.Delete("programas:1")
	if _, ok := c.Get("programas:1"); ok {
		t.Fatal("clave borrada sigue respondiendo")
	}
}

func TestExpira(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("la entrada debía expirar")
	}
}
