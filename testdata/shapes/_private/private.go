package private

func Private() {}
