package mysql

import (
	"context"

	"github.com/c9s/rockhopper"
)

func init() {
	AddMigration(upAddBarsTable, downAddBarsTable)
}

func upAddBarsTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	_, err = tx.ExecContext(ctx, "CREATE TABLE `bars`\n(\n    `symbol`    VARCHAR(8)      NOT NULL,\n    `date`      DATE            NOT NULL,\n    `open`      DOUBLE          NOT NULL,\n    `high`      DOUBLE          NOT NULL,\n    `low`       DOUBLE          NOT NULL,\n    `close`     DOUBLE          NOT NULL,\n    `adj_close` DOUBLE          NOT NULL,\n    `volume`    BIGINT UNSIGNED NOT NULL DEFAULT 0,\n    PRIMARY KEY (`symbol`, `date`)\n);")
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "CREATE INDEX `bars_date` ON `bars` (`date`);")
	return err
}

func downAddBarsTable(ctx context.Context, tx rockhopper.SQLExecutor) (err error) {
	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS `bars`;")
	return err
}
