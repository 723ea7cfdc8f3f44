package config

import "mercator-hq/quarry/pkg/datasource"

// Options converts the data source section into the options
// datasource.Open takes.
func (c DataSourceConfig) Options() datasource.Config {
	return datasource.Config{
		Driver:                 c.Driver,
		DSN:                    c.DSN,
		MaxOpenConns:           c.MaxOpenConns,
		MaxIdleConns:           c.MaxIdleConns,
		ConnMaxLifetime:        c.ConnMaxLifetime,
		ConnMaxIdleTime:        c.ConnMaxIdleTime,
		PingTimeout:            c.PingTimeout,
		BusyTimeout:            c.BusyTimeout,
		ForeignKeys:            c.ForeignKeys,
		SkipDefaultTransaction: c.SkipDefaultTransaction,
		PrepareStmt:            c.PrepareStmt,
		SlowThreshold:          c.SlowThreshold,
	}
}

// TxOptions returns the transaction options for the configured isolation
// level. The level is assumed valid; Validate rejects unknown names.
func (c QueryConfig) TxOptions() datasource.TxOptions {
	level, _ := datasource.ParseIsolationLevel(c.Isolation)
	return datasource.TxOptions{Isolation: level}
}
