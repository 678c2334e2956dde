// Package backend decides, once per process, whether data operations target a
// live store or the in-process mock store.
package backend

import (
	"gorm.io/gorm"

	"cloud.google.com/go/firestore"
)

// Mode is the terminal state of backend resolution.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// Backend is a resolved persistence target. The concrete variants are
// *Mock, *Firestore and *SQL; callers type-switch on them.
type Backend interface {
	Mode() Mode
	Name() string
	Close() error
	sealed()
}

// Mock selects the in-process stores. Reason records why it was chosen.
type Mock struct {
	Reason string
}

// Firestore selects the Cloud Firestore document store.
type Firestore struct {
	Client *firestore.Client
}

// SQL selects a relational store reached through GORM.
type SQL struct {
	DB *gorm.DB
}

func (*Mock) Mode() Mode      { return ModeMock }
func (*Firestore) Mode() Mode { return ModeLive }
func (*SQL) Mode() Mode       { return ModeLive }

func (*Mock) Name() string      { return "mock" }
func (*Firestore) Name() string { return "firestore" }
func (*SQL) Name() string       { return "mysql" }

func (*Mock) Close() error { return nil }

func (b *Firestore) Close() error {
	if b.Client == nil {
		return nil
	}
	return b.Client.Close()
}

func (b *SQL) Close() error {
	if b.DB == nil {
		return nil
	}
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (*Mock) sealed()      {}
func (*Firestore) sealed() {}
func (*SQL) sealed()       {}
