/*
Copyright 2026 The KubeEdge Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dbm owns the local sqlite database of the device service.
package dbm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/beego/beego/v2/client/orm"
	//Blank import to run only the init function
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/common/constants"
	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
)

// DBAccess is Ormer object interface for all transaction processing and switching database
var DBAccess orm.Ormer

var (
	onceDB sync.Once
	initErr error
)

// RegisterModel registers the defined models in the orm. It must run before InitDBManager.
func RegisterModel(models ...interface{}) {
	orm.RegisterModel(models...)
	for _, m := range models {
		klog.V(4).Infof("DB meta %T has been registered", m)
	}
}

// InitDBManager opens the database described by cfg, syncs the schema of the
// registered models and creates DBAccess. Only the first call has an effect.
func InitDBManager(cfg *v1alpha1.DataBase) error {
	onceDB.Do(func() {
		initErr = initDB(cfg)
	})
	return initErr
}

func initDB(cfg *v1alpha1.DataBase) error {
	driverName, aliasName, dataSource := constants.DefaultDriverName, constants.DefaultDBName, constants.DefaultDataSource
	if cfg != nil {
		if cfg.DriverName != "" {
			driverName = cfg.DriverName
		}
		if cfg.AliasName != "" {
			aliasName = cfg.AliasName
		}
		if cfg.DataSource != "" {
			dataSource = cfg.DataSource
		}
	}

	if dir := filepath.Dir(dataSource); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create db dir %s: %w", dir, err)
		}
	}
	if err := orm.RegisterDriver(driverName, orm.DRSqlite); err != nil {
		return fmt.Errorf("failed to register driver: %w", err)
	}
	if err := orm.RegisterDataBase(aliasName, driverName, dataSource); err != nil {
		return fmt.Errorf("failed to register db: %w", err)
	}
	// sync database schema
	if err := orm.RunSyncdb(aliasName, false, klog.V(4).Enabled()); err != nil {
		return fmt.Errorf("failed to sync db schema: %w", err)
	}

	DBAccess = orm.NewOrmUsingDB(aliasName)
	klog.Infof("database %s opened at %s", aliasName, dataSource)
	return nil
}

// RollbackTransaction rolls to back and logs a failure.
func RollbackTransaction(to orm.TxOrmer) {
	if err := to.Rollback(); err != nil {
		klog.Errorf("failed to rollback transaction: %v", err)
	}
}

// IsNonUniqueNameError tests if the error returned by sqlite is unique.
// It will check various sqlite versions.
func IsNonUniqueNameError(err error) bool {
	if err == nil {
		return false
	}
	str := err.Error()
	return strings.HasSuffix(str, "are not unique") ||
		strings.Contains(str, "UNIQUE constraint failed") ||
		strings.HasSuffix(str, "constraint failed")
}
