package contextkeys

// contextKey keeps our keys from colliding with other packages.
type contextKey string

// DBContextKey carries a *gorm.DB (usually a transaction) on a request context.
const DBContextKey = contextKey("db")
