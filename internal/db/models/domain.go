package models

import (
	"time"
)

// Privilege bits stored in Domain.PrivilegeBits.
const (
	DomainPrivBackup     uint32 = 1 << 0
	DomainPrivMonitor    uint32 = 1 << 1
	DomainPrivUncheckUsr uint32 = 1 << 2
	DomainPrivSubSystem  uint32 = 1 << 3
	DomainPrivNetDisk    uint32 = 1 << 4
	DomainPrivExtPasswd  uint32 = 1 << 5
)

// Domain type values.
const (
	DomainTypeNormal uint8 = 0
	DomainTypeAlias  uint8 = 1
)

// Domain status values.
const (
	DomainStatusNormal    uint8 = 0
	DomainStatusSuspended uint8 = 1
	DomainStatusDeleted   uint8 = 3
)

// Domain represents a mail domain.
// Per-domain feature toggles are packed into PrivilegeBits and exposed
// through the accessor methods below.
type Domain struct {
	// ID is the unique identifier for the domain.
	ID uint64 `gorm:"primaryKey"`
	// OrgID is the ID of the organization the domain belongs to (0 if none).
	OrgID uint64 `gorm:"column:org_id;not null;default:0;index"`
	// Domainname is the fully qualified domain name.
	Domainname string `gorm:"size:64"`
	// Homedir is the storage directory of the domain.
	Homedir string `gorm:"size:128;not null;default:''"`
	// MaxUser is the maximum number of users allowed in the domain.
	MaxUser uint64 `gorm:"column:max_user;not null"`
	// Title is the display title of the domain.
	Title string `gorm:"size:128;not null;default:''"`
	// Address is the postal address of the domain owner.
	Address string `gorm:"size:128;not null;default:''"`
	// AdminName is the name of the domain administrator.
	AdminName string `gorm:"column:admin_name;size:32;not null;default:''"`
	// Tel is the phone number of the domain administrator.
	Tel string `gorm:"size:64;not null;default:''"`
	// CreateDay is the date the domain was created.
	CreateDay time.Time `gorm:"column:create_day;not null"`
	// EndDay is the date the domain expires.
	EndDay time.Time `gorm:"column:end_day;not null"`
	// PrivilegeBits packs the per-domain feature toggles.
	PrivilegeBits uint32 `gorm:"column:privilege_bits;not null"`
	// DomainStatus is the lifecycle status of the domain.
	DomainStatus uint8 `gorm:"column:domain_status;not null;default:0"`
	// DomainType distinguishes normal domains from alias domains.
	DomainType uint8 `gorm:"column:domain_type;not null;default:0"`
}

func (d *Domain) setFlag(flag uint32, val bool) {
	if val {
		d.PrivilegeBits |= flag
	} else {
		d.PrivilegeBits &^= flag
	}
}

func (d *Domain) getFlag(flag uint32) bool {
	return d.PrivilegeBits&flag != 0
}

// MailBackup reports whether mail backup is enabled for the domain.
func (d *Domain) MailBackup() bool { return d.getFlag(DomainPrivBackup) }

// SetMailBackup enables or disables mail backup for the domain.
func (d *Domain) SetMailBackup(val bool) { d.setFlag(DomainPrivBackup, val) }

// MailMonitor reports whether mail monitoring is enabled for the domain.
func (d *Domain) MailMonitor() bool { return d.getFlag(DomainPrivMonitor) }

// SetMailMonitor enables or disables mail monitoring for the domain.
func (d *Domain) SetMailMonitor(val bool) { d.setFlag(DomainPrivMonitor, val) }

// IgnoreCheckingUser reports whether user checking is skipped for the domain.
func (d *Domain) IgnoreCheckingUser() bool { return d.getFlag(DomainPrivUncheckUsr) }

// SetIgnoreCheckingUser enables or disables skipping of user checking.
func (d *Domain) SetIgnoreCheckingUser(val bool) { d.setFlag(DomainPrivUncheckUsr, val) }

// MailSubSystem reports whether the mail sub system is enabled for the domain.
func (d *Domain) MailSubSystem() bool { return d.getFlag(DomainPrivSubSystem) }

// SetMailSubSystem enables or disables the mail sub system.
func (d *Domain) SetMailSubSystem(val bool) { d.setFlag(DomainPrivSubSystem, val) }

// NetDisk reports whether the net disk is enabled for the domain.
func (d *Domain) NetDisk() bool { return d.getFlag(DomainPrivNetDisk) }

// SetNetDisk enables or disables the net disk.
func (d *Domain) SetNetDisk(val bool) { d.setFlag(DomainPrivNetDisk, val) }

// ExternalPasswords reports whether passwords are managed by an external
// directory instead of the local database.
func (d *Domain) ExternalPasswords() bool { return d.getFlag(DomainPrivExtPasswd) }

// SetExternalPasswords enables or disables externally managed passwords.
func (d *Domain) SetExternalPasswords(val bool) { d.setFlag(DomainPrivExtPasswd, val) }
