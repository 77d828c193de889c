package testdata

func Fixture() {}
