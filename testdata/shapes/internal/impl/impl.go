package impl

func Impl() {}
