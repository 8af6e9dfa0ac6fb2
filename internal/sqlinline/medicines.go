package sqlinline

const QInsertMedicine = `--sql 0445cbe0-d59b-4094-9600-2e9451042190
insert into medicines(id, name, manufacturer, batch_number, barcode, category, manufacturing_date, expiry_date, verified, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::date, $8::date, $9::boolean, $10::timestamptz, $10::timestamptz);
`

const QGetMedicine = `--sql d14d80ec-7825-4e17-afa5-ed0a4d918294
select id, name, manufacturer, batch_number, barcode, category, manufacturing_date, expiry_date, verified, created_at, updated_at
from medicines
where id = $1::uuid;
`

const QGetMedicineByBarcode = `--sql ed2b2e7d-7448-4e4a-a318-de3859812bee
select id, name, manufacturer, batch_number, barcode, category, manufacturing_date, expiry_date, verified, created_at, updated_at
from medicines
where barcode = $1::text;
`

const QUpdateMedicine = `--sql ad844a04-d164-4f1c-b7fd-b0273de14462
update medicines
set name = $2::text,
    manufacturer = $3::text,
    batch_number = $4::text,
    barcode = $5::text,
    category = $6::text,
    manufacturing_date = $7::date,
    expiry_date = $8::date,
    verified = $9::boolean,
    updated_at = $10::timestamptz
where id = $1::uuid;
`

const QDeleteMedicine = `--sql d2230db7-f319-45b0-b1d6-9e3b9a42018a
delete from medicines
where id = $1::uuid;
`

const QListMedicines = `--sql 64263f0b-5c5c-4586-8ede-fb6f2ea4d8ec
select id, name, manufacturer, batch_number, barcode, category, manufacturing_date, expiry_date, verified, created_at, updated_at
from medicines
where ($1::text is null or to_tsvector('simple', name || ' ' || manufacturer) @@ plainto_tsquery('simple', $1::text))
  and ($2::text is null or category = $2::text)
order by name asc
offset $3::int
limit $4::int;
`

const QCountMedicines = `--sql 0317cccb-58c6-49e5-96b4-d93ea6f61c97
select count(*)
from medicines
where ($1::text is null or to_tsvector('simple', name || ' ' || manufacturer) @@ plainto_tsquery('simple', $1::text))
  and ($2::text is null or category = $2::text);
`
