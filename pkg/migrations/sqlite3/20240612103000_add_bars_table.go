package sqlite3

import (
	"context"

	"github.com/c9s/rockhopper"
)

func init() {
	AddMigration(upAddBarsTable, downAddBarsTable)
}

func upAddBarsTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	// DATE keeps the column scanned as time.Time by the sqlite3 driver
	_, err = tx.ExecContext(ctx, "CREATE TABLE `bars`\n(\n    `symbol`    VARCHAR(8) NOT NULL,\n    `date`      DATE       NOT NULL,\n    `open`      REAL       NOT NULL,\n    `high`      REAL       NOT NULL,\n    `low`       REAL       NOT NULL,\n    `close`     REAL       NOT NULL,\n    `adj_close` REAL       NOT NULL,\n    `volume`    INTEGER    NOT NULL DEFAULT 0,\n    PRIMARY KEY (`symbol`, `date`)\n);")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "CREATE INDEX `bars_date` ON `bars` (`date`);")
	return err
}

func downAddBarsTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	_, err = tx.ExecContext(ctx, "DROP INDEX IF EXISTS `bars_date`;")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS `bars`;")
	return err
}
