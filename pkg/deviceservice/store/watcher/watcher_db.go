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

package watcher

import (
	"encoding/json"

	"github.com/beego/beego/v2/client/orm"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/dbm"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// WatcherTableName is the table of persisted provision watchers
const WatcherTableName = "provision_watcher"

// Watcher is the persisted form of a provision watcher
type Watcher struct {
	Name           string `orm:"column(name); size(256); pk"`
	ID             string `orm:"column(id); null; type(text)"`
	Service        string `orm:"column(service); null; type(text)"`
	Profile        string `orm:"column(profile); null; type(text)"`
	OperatingState string `orm:"column(operating_state); null; type(text)"`
	Identifiers    string `orm:"column(identifiers); null; type(text)"`
}

// TableName returns the table of Watcher
func (w *Watcher) TableName() string {
	return WatcherTableName
}

// InitDBTable registers the watcher table. It must run before dbm.InitDBManager.
func InitDBTable() {
	dbm.RegisterModel(new(Watcher))
}

// Persister keeps watchers across restarts.
type Persister interface {
	Save(w *types.ProvisionWatcher) error
	Delete(name string) error
	List() ([]types.ProvisionWatcher, error)
}

// DBPersister persists watchers in the local database
type DBPersister struct {
	ormer func() orm.Ormer
}

// NewDBPersister returns a persister over dbm.DBAccess
func NewDBPersister() *DBPersister {
	return &DBPersister{ormer: func() orm.Ormer { return dbm.DBAccess }}
}

func toRow(w *types.ProvisionWatcher) (*Watcher, error) {
	identifiers, err := json.Marshal(w.Identifiers)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		Name:           w.Name,
		ID:             w.ID,
		Service:        w.Service,
		Profile:        w.ProfileName(),
		OperatingState: string(w.OperatingState),
		Identifiers:    string(identifiers),
	}, nil
}

func fromRow(row *Watcher) types.ProvisionWatcher {
	w := types.ProvisionWatcher{
		ID:             row.ID,
		Name:           row.Name,
		Service:        row.Service,
		OperatingState: types.OperatingState(row.OperatingState),
	}
	if row.Profile != "" {
		w.Profile = &types.DeviceProfile{Name: row.Profile}
	}
	if row.Identifiers != "" {
		if err := json.Unmarshal([]byte(row.Identifiers), &w.Identifiers); err != nil {
			klog.Warningf("watcher %s has malformed identifiers: %v", row.Name, err)
		}
	}
	return w
}

// Save inserts the row of w, or updates it when a watcher of that name is stored
func (p *DBPersister) Save(w *types.ProvisionWatcher) (err error) {
	row, err := toRow(w)
	if err != nil {
		return err
	}
	to, err := p.ormer().Begin()
	if err != nil {
		klog.Errorf("failed to begin transaction: %v", err)
		return err
	}
	defer func() {
		if err != nil {
			dbm.RollbackTransaction(to)
			return
		}
		if err = to.Commit(); err != nil {
			klog.Errorf("failed to commit transaction: %v", err)
		}
	}()

	num, err := to.Insert(row)
	if dbm.IsNonUniqueNameError(err) {
		num, err = to.Update(row)
		klog.V(4).Infof("Update affected Num: %d, %v", num, err)
		return err
	}
	klog.V(4).Infof("Insert affected Num: %d, %v", num, err)
	return err
}

// Delete removes the row of the watcher called name
func (p *DBPersister) Delete(name string) error {
	num, err := p.ormer().QueryTable(WatcherTableName).Filter("name", name).Delete()
	if err != nil {
		klog.Errorf("Something wrong when deleting data: %v", err)
		return err
	}
	klog.V(4).Infof("Delete affected Num: %d", num)
	return nil
}

// List returns every stored watcher
func (p *DBPersister) List() ([]types.ProvisionWatcher, error) {
	var rows []*Watcher
	if _, err := p.ormer().QueryTable(WatcherTableName).All(&rows); err != nil {
		return nil, err
	}
	watchers := make([]types.ProvisionWatcher, 0, len(rows))
	for _, row := range rows {
		watchers = append(watchers, fromRow(row))
	}
	return watchers, nil
}
