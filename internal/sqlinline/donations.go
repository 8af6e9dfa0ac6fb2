package sqlinline

const QInsertDonation = `--sql ff710a7d-fd04-4aab-b4b3-d26f039f069b
insert into donations(id, donor_id, receiver_id, items, status, pickup_address, notes, status_history, version, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::jsonb, $5::text, $6::jsonb, $7::text, $8::jsonb, 1, $9::timestamptz, $9::timestamptz);
`

const QGetDonation = `--sql 93e69fc4-df1b-4320-a7b9-f73ce124116d
select id, donor_id, receiver_id, items, status, pickup_address, pickup_date, notes, status_history, version, created_at, updated_at
from donations
where id = $1::uuid;
`

// QUpdateDonation bumps the version only when the caller still holds the
// latest one; zero rows affected means a concurrent writer won.
const QUpdateDonation = `--sql 4c28ec57-8a08-4328-851c-e85f02f85dd9
update donations
set status = $2::text,
    pickup_date = $3::timestamptz,
    status_history = $4::jsonb,
    version = version + 1,
    updated_at = $5::timestamptz
where id = $1::uuid and version = $6::bigint;
`

const QListDonations = `--sql 8f47b3ca-9f91-471b-8821-6c7eed19fa5b
select id, donor_id, receiver_id, items, status, pickup_address, pickup_date, notes, status_history, version, created_at, updated_at
from donations
where ($1::uuid is null or donor_id = $1::uuid)
  and ($2::uuid is null or receiver_id = $2::uuid)
  and ($3::text is null or status = $3::text)
order by created_at desc
offset $4::int
limit $5::int;
`

const QCountDonations = `--sql fb434d0e-1836-4400-b86a-7af6b73b4120
select count(*)
from donations
where ($1::uuid is null or donor_id = $1::uuid)
  and ($2::uuid is null or receiver_id = $2::uuid)
  and ($3::text is null or status = $3::text);
`
