package engine

// AddItem puts one name into the inventory.
func (w *World) AddItem(name string) {
	w.AddItems(name, 1)
}

// AddItems puts qty of name into the inventory and records it as the last
// acquired item. Empty names and non-positive quantities are rejected.
func (w *World) AddItems(name string, qty int) bool {
	if name == "" || qty < 1 {
		return false
	}
	w.inventory[name] += qty
	w.lastAcquired = name
	return true
}

// RemoveItem takes qty of name out of the inventory. It fails without
// changing anything if fewer than qty are held. A count that reaches zero
// removes the entry.
func (w *World) RemoveItem(name string, qty int) bool {
	if qty < 1 {
		return false
	}
	have := w.inventory[name]
	if have < qty {
		return false
	}
	if have == qty {
		delete(w.inventory, name)
	} else {
		w.inventory[name] = have - qty
	}
	return true
}
