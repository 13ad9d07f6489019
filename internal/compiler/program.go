package compiler

// Program is the compiler's output: a block graph plus the character
// class arena blocks of kind OpList reference, ready for the VM to
// execute. Blocks and CharClasses live for the lifetime of the owning
// Regex (spec.md §3 lifecycle).
type Program struct {
	Blocks      []Block
	CharClasses [][]ListItem
	NumGroups   int
	NumProgress int
}
