package pathutil

// RefPrefixComponents is the prefix every local component reference carries.
const RefPrefixComponents = "#/components/"

// ComponentRef builds "#/components/{kind}/{name}", escaping name as a
// JSON Pointer token.
func ComponentRef(kind, name string) string {
	return RefPrefixComponents + kind + "/" + EscapePointerToken(name)
}
