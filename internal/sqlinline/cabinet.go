package sqlinline

const QInsertCabinetEntry = `--sql 728b0e10-e051-42a6-ab94-83c337a76cdb
insert into cabinet_entries(id, holder_id, medicine_id, quantity, expiry_date, added_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::int, $5::date, $6::timestamptz);
`

const QListCabinetByHolder = `--sql 237b68dc-ddf2-48c6-8275-db0945864bf7
select c.id, c.holder_id, c.medicine_id, m.name, c.quantity, c.expiry_date, c.added_at
from cabinet_entries c
join medicines m on m.id = c.medicine_id
where c.holder_id = $1::uuid
order by c.expiry_date asc;
`

const QDeleteCabinetEntry = `--sql 71a9e396-c379-4c63-a3b7-d7c2b67a3082
delete from cabinet_entries
where id = $1::uuid and holder_id = $2::uuid;
`

const QListHoldersWithEntries = `--sql 289769a0-35c3-4f46-826a-6c6f4ac09f1e
select distinct holder_id
from cabinet_entries;
`

const QListExpiringEntries = `--sql 63b5e43b-4767-4630-b902-568804647f13
select c.id, c.holder_id, c.medicine_id, m.name, c.quantity, c.expiry_date, c.added_at
from cabinet_entries c
join medicines m on m.id = c.medicine_id
where c.holder_id = $1::uuid and c.expiry_date <= $2::date
order by c.expiry_date asc;
`
