package common

// SubPackage joins a parent import path and a directory name.
func SubPackage(parent, dir string) string {
	if parent == "" {
		return dir
	}

	return parent + "/" + dir
}
