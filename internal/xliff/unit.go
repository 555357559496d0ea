package xliff

import "github.com/beevik/etree"

// Units returns every <trans-unit> at any depth below el, in document order.
// el itself comes first if it is a <trans-unit>.
func Units(el *etree.Element) []*etree.Element {
	units := Descendants(el, "trans-unit")
	if Is(el, "trans-unit") {
		units = append([]*etree.Element{el}, units...)
	}
	return units
}

// ID returns the id attribute of a <trans-unit>.
func ID(unit *etree.Element) string {
	return Attr(unit, "id")
}

// Translatable reports whether unit is not marked translate="no".
func Translatable(unit *etree.Element) bool {
	return Attr(unit, "translate") != "no"
}

// HasTarget reports whether unit has a <target> child. An empty <target/>
// counts as present.
func HasTarget(unit *etree.Element) bool {
	return Child(unit, "target") != nil
}

// Missing reports whether unit still needs a translation.
func Missing(unit *etree.Element) bool {
	return !HasTarget(unit) && Translatable(unit)
}
