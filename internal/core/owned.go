package core

// Owned is implemented by every entity with exactly one owner. The scoping
// layer is generic over it: owners are forced from the caller identity on
// create and re-asserted on every update, so a client-supplied owner id is
// never trusted.
type Owned interface {
	GetID() int64
	GetOwner() int64
	SetOwner(ownerID int64)
}

func (a *Account) GetID() int64           { return a.ID }
func (a *Account) GetOwner() int64        { return a.OwnerID }
func (a *Account) SetOwner(ownerID int64) { a.OwnerID = ownerID }

func (c *Category) GetID() int64           { return c.ID }
func (c *Category) GetOwner() int64        { return c.OwnerID }
func (c *Category) SetOwner(ownerID int64) { c.OwnerID = ownerID }

func (t *Transaction) GetID() int64           { return t.ID }
func (t *Transaction) GetOwner() int64        { return t.OwnerID }
func (t *Transaction) SetOwner(ownerID int64) { t.OwnerID = ownerID }

func (g *Goal) GetID() int64           { return g.ID }
func (g *Goal) GetOwner() int64        { return g.OwnerID }
func (g *Goal) SetOwner(ownerID int64) { g.OwnerID = ownerID }

func (r *AlertRule) GetID() int64           { return r.ID }
func (r *AlertRule) GetOwner() int64        { return r.OwnerID }
func (r *AlertRule) SetOwner(ownerID int64) { r.OwnerID = ownerID }
